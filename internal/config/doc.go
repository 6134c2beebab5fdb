// Package config loads, normalizes, and validates the TOML configuration for
// the coursebuild pipeline.
package config
