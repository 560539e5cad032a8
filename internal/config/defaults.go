package config

import "github.com/sebnyberg/cropview"

const (
	BackendNative    = "native"
	BackendVips      = "vips"
	BackendVipsImage = "vipsimage"

	defaultMaxFileSize = "50MiB"
	defaultTimeout     = "30s"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
)

// Default returns a Config populated with the pipeline defaults.
func Default() Config {
	return Config{
		Limits: Limits{
			MaxFileSize: defaultMaxFileSize,
			MaxWidth:    cropview.DefaultMaxWidth,
			MaxPixels:   cropview.DefaultMaxPixels,
			CropHeight:  cropview.DefaultCropHeight,

			MaxFramePixels: cropview.DefaultMaxFramePixels,
		},
		Encode: Encode{
			Quality: cropview.DefaultQuality,
		},
		Decode: Decode{
			Timeout: defaultTimeout,
			Backend: BackendNative,
		},
		Log: Log{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
