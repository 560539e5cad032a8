package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"

	"github.com/sebnyberg/cropview"
)

//go:embed sample_config.toml
var sampleConfig string

// Limits mirrors cropview.Limits in file form.
type Limits struct {
	MaxFileSize string `toml:"max_file_size"`
	MaxWidth    int    `toml:"max_width"`
	MaxPixels   int64  `toml:"max_pixels"`
	CropHeight  int    `toml:"crop_height"`

	MaxFramePixels int64 `toml:"max_frame_pixels"`
}

type Encode struct {
	Quality int `toml:"quality"`
}

type Decode struct {
	Timeout string `toml:"timeout"`
	Backend string `toml:"backend"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full configuration.
type Config struct {
	Limits Limits `toml:"limits"`
	Encode Encode `toml:"encode"`
	Decode Decode `toml:"decode"`
	Log    Log    `toml:"log"`
}

// SampleConfig returns a commented configuration file with default values.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath is $XDG_CONFIG_HOME/cropview/config.toml, or the
// equivalent under the user config dir.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cropview", "config.toml"), nil
}

// Load reads the config at path, or at DefaultConfigPath when path is empty.
// It returns the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved := strings.TrimSpace(path)
	if resolved == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, "", false, fmt.Errorf("resolve config path: %w", err)
		}
		resolved = p
	}

	exists := true
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

// CreateSample writes SampleConfig to path, refusing to overwrite.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create config %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(sampleConfig); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// PipelineLimits converts the limits section. Call Validate first.
func (c *Config) PipelineLimits() cropview.Limits {
	size, _ := humanize.ParseBytes(c.Limits.MaxFileSize)
	return cropview.Limits{
		MaxFileSize: int64(size),
		MaxWidth:    c.Limits.MaxWidth,
		MaxPixels:   c.Limits.MaxPixels,
		CropHeight:  c.Limits.CropHeight,

		MaxFramePixels: c.Limits.MaxFramePixels,
	}
}

// DecodeTimeout parses decode.timeout. Call Validate first.
func (c *Config) DecodeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Decode.Timeout)
	return d
}

// Options returns the pipeline options for everything except the decoder
// backend and logger, which the caller wires.
func (c *Config) Options() []cropview.Option {
	return []cropview.Option{
		cropview.WithLimits(c.PipelineLimits()),
		cropview.WithQuality(c.Encode.Quality),
		cropview.WithDecodeTimeout(c.DecodeTimeout()),
	}
}
