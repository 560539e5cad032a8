//go:build vips

package vipsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	vipsimage "github.com/vipsimage/vips"
	"go.uber.org/zap"
	"golang.org/x/image/tiff"

	"github.com/sebnyberg/cropview"
)

var _ cropview.Decoder = new(FileDecoder)

// FileDecoder decodes with the vipsimage binding, which only loads from a
// path. Each buffer is spooled to a temporary directory, saved back as TIFF by
// libvips and read with the Go TIFF decoder.
type FileDecoder struct {
	dir string
	log *zap.Logger
	mtx sync.Mutex
}

// NewFileDecoder spools to dir, or to os.TempDir when dir is empty.
func NewFileDecoder(log *zap.Logger, dir string) *FileDecoder {
	if log == nil {
		log = zap.NewNop()
	}
	Startup(log)
	return &FileDecoder{dir: dir, log: log.Named("vipsimage")}
}

func (d *FileDecoder) Decode(ctx context.Context, buf cropview.ByteBuffer, contentType string) (*cropview.DecodedImage, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spool, err := os.MkdirTemp(d.dir, "cropview-")
	if err != nil {
		return nil, fmt.Errorf("create spool dir err, %w", err)
	}
	defer func() {
		if err := os.RemoveAll(spool); err != nil {
			d.log.Warn("remove spool dir", zap.String("dir", spool), zap.Error(err))
		}
	}()

	in := filepath.Join(spool, "in")
	if err := os.WriteFile(in, buf, 0o600); err != nil {
		return nil, fmt.Errorf("spool image err, %w", err)
	}
	img, err := vipsimage.NewFromFile(in)
	if err != nil {
		return nil, fmt.Errorf("vipsimage load %s err, %w", contentType, err)
	}
	out := filepath.Join(spool, "out.tif")
	if err := img.TIFFSave(out); err != nil {
		return nil, fmt.Errorf("vipsimage tiffsave err, %w", err)
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("open spooled tiff err, %w", err)
	}
	defer f.Close()
	decoded, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode spooled tiff err, %w", err)
	}
	return cropview.NewDecodedImage(decoded, formatOf(contentType)), nil
}

func formatOf(contentType string) string {
	if f, ok := strings.CutPrefix(contentType, "image/"); ok && f != "" {
		return f
	}
	return "unknown"
}
