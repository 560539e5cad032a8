//go:build vips

// Package vipsx decodes images with libvips. It needs cgo and libvips, and is
// only built with the vips build tag.
package vipsx

import (
	"context"
	"fmt"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
	"go.uber.org/zap"

	"github.com/sebnyberg/cropview"
)

var (
	_ cropview.Decoder       = new(Decoder)
	_ cropview.ConfigDecoder = new(Decoder)
)

var startOnce sync.Once

// Startup starts libvips and routes its log output to log. Only the first
// call has any effect. NewDecoder calls it.
func Startup(log *zap.Logger) {
	startOnce.Do(func() {
		if log == nil {
			log = zap.NewNop()
		}
		vips.LoggingSettings(zapHandler(log), vips.LogLevelWarning)
		vips.Startup(nil)
	})
}

// Shutdown stops libvips. No decoder may be used afterwards.
func Shutdown() {
	vips.Shutdown()
}

func zapHandler(log *zap.Logger) vips.LoggingHandlerFunction {
	log = log.Named("vips")
	return func(domain string, level vips.LogLevel, msg string) {
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			log.Error(msg, zap.String("domain", domain))
		case vips.LogLevelWarning:
			log.Warn(msg, zap.String("domain", domain))
		default:
			log.Debug(msg, zap.String("domain", domain))
		}
	}
}

// Decoder is a cropview.Decoder backed by libvips, which reads more formats
// than the Go decoders (HEIF and AVIF when libvips has them).
type Decoder struct {
	mtx sync.Mutex // serializes calls into libvips
}

func NewDecoder(log *zap.Logger) *Decoder {
	Startup(log)
	return &Decoder{}
}

func (d *Decoder) Decode(ctx context.Context, buf cropview.ByteBuffer, contentType string) (*cropview.DecodedImage, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref, err := vips.NewImageFromBuffer(buf)
	if err != nil {
		return nil, fmt.Errorf("vips load %s err, %w", contentType, err)
	}
	defer ref.Close()
	if ref.Width() <= 0 || ref.Height() <= 0 {
		return nil, fmt.Errorf("vips load %s: empty image", contentType)
	}

	img, err := ref.ToImage(vips.NewDefaultPNGExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export err, %w", err)
	}
	return cropview.NewDecodedImage(img, vips.ImageTypes[ref.Format()]), nil
}

// DecodeConfig reads the dimensions from the image header. libvips loads
// lazily, so no pixels are decoded.
func (d *Decoder) DecodeConfig(ctx context.Context, buf cropview.ByteBuffer, contentType string) (int, int, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	ref, err := vips.NewImageFromBuffer(buf)
	if err != nil {
		return 0, 0, fmt.Errorf("vips header %s err, %w", contentType, err)
	}
	defer ref.Close()
	return ref.Width(), ref.Height(), nil
}
