package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLimits(); err != nil {
		return err
	}
	if c.Encode.Quality < 1 || c.Encode.Quality > 100 {
		return fmt.Errorf("encode.quality must be between 1 and 100, got %d", c.Encode.Quality)
	}
	if err := c.validateDecode(); err != nil {
		return err
	}
	return c.validateLog()
}

func (c *Config) validateLimits() error {
	size, err := humanize.ParseBytes(c.Limits.MaxFileSize)
	if err != nil {
		return fmt.Errorf("limits.max_file_size %q: %w", c.Limits.MaxFileSize, err)
	}
	if size == 0 {
		return errors.New("limits.max_file_size must be positive")
	}
	if c.Limits.MaxWidth <= 0 {
		return errors.New("limits.max_width must be positive")
	}
	if c.Limits.MaxPixels <= 0 {
		return errors.New("limits.max_pixels must be positive")
	}
	if c.Limits.CropHeight <= 0 {
		return errors.New("limits.crop_height must be positive")
	}
	if c.Limits.MaxFramePixels <= 0 {
		return errors.New("limits.max_frame_pixels must be positive")
	}
	return nil
}

func (c *Config) validateDecode() error {
	d, err := time.ParseDuration(c.Decode.Timeout)
	if err != nil {
		return fmt.Errorf("decode.timeout %q: %w", c.Decode.Timeout, err)
	}
	if d <= 0 {
		return errors.New("decode.timeout must be positive")
	}
	switch c.Decode.Backend {
	case BackendNative, BackendVips, BackendVipsImage:
	default:
		return fmt.Errorf("decode.backend must be %q, %q or %q, got %q",
			BackendNative, BackendVips, BackendVipsImage, c.Decode.Backend)
	}
	return nil
}

func (c *Config) validateLog() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
