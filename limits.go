package cropview

import "time"

const (
	DefaultMaxFileSize    = 50 << 20
	DefaultMaxWidth       = 16384
	DefaultMaxPixels      = 268435456
	DefaultMaxFramePixels = 1 << 28
	DefaultCropHeight     = 500
	DefaultQuality        = 95
	DefaultDecodeTimeout  = 30 * time.Second
)

// Limits bounds the work done on a single file.
type Limits struct {
	// MaxFileSize is the largest declared size accepted, in bytes.
	MaxFileSize int64
	// MaxWidth is the widest decoded image accepted, in pixels.
	MaxWidth int
	// MaxPixels bounds width*croppedHeight of the destination surface.
	MaxPixels int64
	// CropHeight is the number of rows kept from the top of the image.
	CropHeight int
	// MaxFramePixels bounds width*height of the full decoded frame. It is
	// only enforced for decoders that implement ConfigDecoder. Zero means no
	// bound.
	MaxFramePixels int64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize: DefaultMaxFileSize,
		MaxWidth:    DefaultMaxWidth,
		MaxPixels:   DefaultMaxPixels,
		CropHeight:  DefaultCropHeight,

		MaxFramePixels: DefaultMaxFramePixels,
	}
}
