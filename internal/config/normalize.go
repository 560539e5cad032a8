package config

import "strings"

func (c *Config) normalize() {
	def := Default()
	c.Limits.MaxFileSize = strings.TrimSpace(c.Limits.MaxFileSize)
	if c.Limits.MaxFileSize == "" {
		c.Limits.MaxFileSize = def.Limits.MaxFileSize
	}
	c.Decode.Timeout = strings.TrimSpace(c.Decode.Timeout)
	if c.Decode.Timeout == "" {
		c.Decode.Timeout = def.Decode.Timeout
	}
	c.Decode.Backend = strings.ToLower(strings.TrimSpace(c.Decode.Backend))
	if c.Decode.Backend == "" {
		c.Decode.Backend = def.Decode.Backend
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}
