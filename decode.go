package cropview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	_ Decoder       = NativeDecoder{}
	_ ConfigDecoder = NativeDecoder{}
)

// Decoder turns an encoded image into pixels.
type Decoder interface {
	// Decode decodes buf. contentType is a hint and may be empty.
	// Implementations should return promptly once ctx is done, but the
	// pipeline does not rely on it.
	Decode(ctx context.Context, buf ByteBuffer, contentType string) (*DecodedImage, error)
}

// ConfigDecoder is implemented by decoders that can read the dimensions of an
// image without decoding its pixels. The frame is then checked with
// CheckFrame before Decode is called, so an oversized frame is never
// allocated.
type ConfigDecoder interface {
	DecodeConfig(ctx context.Context, buf ByteBuffer, contentType string) (width, height int, err error)
}

// DecodedImage is a decoded image ready to be cropped. The pixel data is only
// reachable through the cropper, and is dropped by Release.
type DecodedImage struct {
	Width  int
	Height int
	Format string

	img       image.Image
	onRelease func()
}

// NewDecodedImage wraps img for use by the cropper. It is meant for Decoder
// implementations outside this package.
func NewDecodedImage(img image.Image, format string) *DecodedImage {
	b := img.Bounds()
	return &DecodedImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		img:    img,
	}
}

// Release drops the reference to the pixel data.
func (d *DecodedImage) Release() {
	if d == nil {
		return
	}
	d.img = nil
	if d.onRelease != nil {
		d.onRelease()
		d.onRelease = nil
	}
}

// NativeDecoder decodes with the Go image decoders: JPEG, PNG, GIF, BMP,
// TIFF and WebP.
type NativeDecoder struct{}

func (NativeDecoder) Decode(ctx context.Context, buf ByteBuffer, contentType string) (*DecodedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	return NewDecodedImage(img, format), nil
}

func (NativeDecoder) DecodeConfig(ctx context.Context, buf ByteBuffer, contentType string) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

type decodeResult struct {
	img *DecodedImage
	err error
}

// decode runs dec with a timeout. If the timer fires first the decoder is
// abandoned: its goroutine may keep running, but whatever it produces is
// released and dropped. sig picks the error kind for a failed decode. When dec
// implements ConfigDecoder the frame is checked against lim first.
func decode(ctx context.Context, dec Decoder, buf ByteBuffer, sig Signature, contentType string, timeout time.Duration, lim Limits) (*DecodedImage, error) {
	dctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan decodeResult)
	abandoned := make(chan struct{})
	defer close(abandoned)
	go func() {
		var res decodeResult
		defer func() {
			if r := recover(); r != nil {
				res = decodeResult{err: fmt.Errorf("decoder panic: %v", r)}
			}
			select {
			case done <- res:
			case <-abandoned:
				res.img.Release()
			}
		}()
		res.img, res.err = decodeFrame(dctx, dec, buf, contentType, lim)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var res decodeResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, newError(KindDecodeTimeout, nil,
			"image did not decode within %v", timeout)
	case res = <-done:
	}

	if res.err != nil {
		res.img.Release()
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(res.err, ctxErr) {
			return nil, ctxErr
		}
		var perr *Error
		if errors.As(res.err, &perr) {
			return nil, perr
		}
		if sig == SignatureUnknown {
			return nil, newError(KindUnsupportedSignature, res.err,
				"file content is not a recognized image format")
		}
		return nil, newError(KindDecodeFailure, res.err,
			"%s image could not be decoded", sig)
	}
	if res.img == nil || res.img.Width <= 0 || res.img.Height <= 0 {
		w, h := 0, 0
		if res.img != nil {
			w, h = res.img.Width, res.img.Height
			res.img.Release()
		}
		return nil, newError(KindDecodeFailure, nil,
			"decoded image has empty dimensions %dx%d", w, h)
	}
	return res.img, nil
}

// decodeFrame checks the frame size when dec can report it, then decodes.
func decodeFrame(ctx context.Context, dec Decoder, buf ByteBuffer, contentType string, lim Limits) (*DecodedImage, error) {
	if cd, ok := dec.(ConfigDecoder); ok {
		w, h, err := cd.DecodeConfig(ctx, buf, contentType)
		if err != nil {
			return nil, err
		}
		if err := CheckFrame(w, h, lim); err != nil {
			return nil, err
		}
	}
	return dec.Decode(ctx, buf, contentType)
}
