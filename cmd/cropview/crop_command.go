package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sebnyberg/cropview"
)

func newCropCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "crop FILE [FILE...]",
		Short: "Crop the first file and print its preview as a data URL",
		Long: `Crop runs the intake pipeline on the first file given: size and type
checks, read, signature sniffing, decode, bounds checks, then a copy of the
top rows encoded as JPEG. Extra files are ignored, as with a multi-file
drop. Files ending in .zst are decompressed on the fly.

The preview is printed to stdout as a data:image/jpeg;base64 URL, or written
as a JPEG file with --out.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.newPipeline(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger := ctx.logger
			defer logger.Sync() //nolint:errcheck

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src, closer, err := openFirst(args, cfg.PipelineLimits().MaxFileSize)
			if err != nil {
				return err
			}
			defer closer.Close()

			if len(args) > 1 {
				logger.Warn("multiple files given, using the first",
					zap.String("file", src.Name), zap.Int("ignored", len(args)-1))
			}

			res, err := p.Process(cmd.Context(), src)
			if err != nil {
				var perr *cropview.Error
				if errors.As(err, &perr) {
					return fmt.Errorf("%s: %s", src.Name, perr.Msg)
				}
				return err
			}

			if outPath == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), res.DataURL)
				return err
			}
			_, data, err := cropview.DecodeDataURL(res.DataURL)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write preview %q err, %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%dx%d)\n", outPath, res.Width, res.Height)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the preview JPEG to this file instead of printing a data URL")
	return cmd
}
