package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sebnyberg/cropview"
	"github.com/sebnyberg/cropview/zstdx"
)

// lazyFile opens path on the first Read, so files rejected by the intake
// checks are never opened.
type lazyFile struct {
	path string
	f    *os.File
	err  error
}

func (l *lazyFile) Read(p []byte) (int, error) {
	if l.f == nil && l.err == nil {
		l.f, l.err = os.OpenFile(l.path, os.O_RDONLY, 0)
	}
	if l.err != nil {
		return 0, l.err
	}
	return l.f.Read(p)
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}

// openFirst opens the first of paths, as with a multi-file drop. The rest
// are never touched, so a broken or missing extra file cannot fail the run.
func openFirst(paths []string, maxSize int64) (cropview.SourceFile, io.Closer, error) {
	if len(paths) == 0 {
		return cropview.SourceFile{}, nil, errors.New("no file given")
	}
	return openSource(paths[0], maxSize)
}

func openSource(path string, maxSize int64) (cropview.SourceFile, io.Closer, error) {
	path = filepath.Clean(path)
	if strings.EqualFold(filepath.Ext(path), zstdx.Ext) {
		src, err := zstdx.OpenFile(path, maxSize)
		if err != nil {
			return cropview.SourceFile{}, nil, err
		}
		return src.SourceFile, src, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return cropview.SourceFile{}, nil, fmt.Errorf("stat file %q err, %w", path, err)
	}
	if info.IsDir() {
		return cropview.SourceFile{}, nil, fmt.Errorf("%q is a directory", path)
	}
	name := filepath.Base(path)
	lf := &lazyFile{path: path}
	return cropview.NewSourceFile(name, cropview.TypeByName(name), info.Size(), lf), lf, nil
}
