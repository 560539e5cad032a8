package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sebnyberg/cropview"
)

func newSniffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sniff FILE",
		Short: "Show the declared type and the detected signature of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Clean(args[0])
			f, err := os.OpenFile(path, os.O_RDONLY, 0)
			if err != nil {
				return fmt.Errorf("open file %q err, %w", path, err)
			}
			defer f.Close()

			var head [4]byte
			n, err := io.ReadFull(f, head[:])
			if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
				return fmt.Errorf("read %q err, %w", path, err)
			}

			declared := cropview.TypeByName(path)
			if declared == "" {
				declared = "unknown"
			}
			sig := cropview.Sniff(head[:n])
			fmt.Fprintf(cmd.OutOrStdout(), "declared: %s\nsignature: %s\n", declared, sig)
			return nil
		},
	}
}
