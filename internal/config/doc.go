// Package config loads and validates the TOML configuration that drives a
// merge run: pack locations, per-speaker language choices, polyglot overrides,
// subtitle language, and feature toggles. The loaded value is treated as
// immutable by the rest of the pipeline.
package config
