package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"

	"github.com/sebnyberg/cropview"
	"github.com/sebnyberg/cropview/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, path, resolved)
	require.False(t, exists)

	require.Equal(t, cropview.DefaultLimits(), cfg.PipelineLimits())
	require.Equal(t, cropview.DefaultDecodeTimeout, cfg.DecodeTimeout())
	require.Equal(t, cropview.DefaultQuality, cfg.Encode.Quality)
	require.Equal(t, config.BackendNative, cfg.Decode.Backend)
}

func TestLoadDefaultPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	_, resolved, _, err := config.Load("")
	require.NoError(t, err)
	require.Contains(t, resolved, filepath.Join("cropview", "config.toml"))
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, toml.Unmarshal([]byte(config.SampleConfig()), &cfg))
	require.Equal(t, config.Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[limits]
max_file_size = "10 MB"
crop_height = 200
max_frame_pixels = 1000000

[encode]
quality = 80

[decode]
timeout = "2s"
backend = "  VIPS "

[log]
level = "DEBUG"
`), 0o644))

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, exists)

	lim := cfg.PipelineLimits()
	require.Equal(t, int64(10_000_000), lim.MaxFileSize)
	require.Equal(t, 200, lim.CropHeight)
	require.Equal(t, int64(1_000_000), lim.MaxFramePixels)
	require.Equal(t, cropview.DefaultMaxWidth, lim.MaxWidth)
	require.Equal(t, 80, cfg.Encode.Quality)
	require.Equal(t, 2*time.Second, cfg.DecodeTimeout())
	require.Equal(t, config.BackendVips, cfg.Decode.Backend)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.Len(t, cfg.Options(), 3)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad size", func(c *config.Config) { c.Limits.MaxFileSize = "lots" }},
		{"zero size", func(c *config.Config) { c.Limits.MaxFileSize = "0B" }},
		{"zero width", func(c *config.Config) { c.Limits.MaxWidth = 0 }},
		{"negative pixels", func(c *config.Config) { c.Limits.MaxPixels = -1 }},
		{"zero crop", func(c *config.Config) { c.Limits.CropHeight = 0 }},
		{"zero frame pixels", func(c *config.Config) { c.Limits.MaxFramePixels = 0 }},
		{"quality high", func(c *config.Config) { c.Encode.Quality = 101 }},
		{"quality zero", func(c *config.Config) { c.Encode.Quality = 0 }},
		{"bad timeout", func(c *config.Config) { c.Decode.Timeout = "soon" }},
		{"negative timeout", func(c *config.Config) { c.Decode.Timeout = "-1s" }},
		{"bad backend", func(c *config.Config) { c.Decode.Backend = "imagemagick" }},
		{"bad level", func(c *config.Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *config.Config) { c.Log.Format = "xml" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	cfg.Decode.Backend = config.BackendVipsImage
	require.NoError(t, cfg.Validate())
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[limits\nmax_width = "), 0o644))
	_, _, _, err := config.Load(path)
	require.Error(t, err)
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.CreateSample(path))
	require.Error(t, config.CreateSample(path), "must not overwrite")

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, config.Default(), *cfg)
}
