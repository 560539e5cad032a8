// Package config loads and validates cropview configuration.
//
// Settings come from a TOML file laid over repository defaults. A missing
// file is not an error. Sizes are written human style ("50MiB") and
// durations as Go duration strings ("30s"). Options converts a validated
// Config into pipeline options.
package config
