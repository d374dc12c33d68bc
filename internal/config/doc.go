// Package config loads, normalizes, and validates oshash configuration data.
//
// A configuration file is optional: without one the CLI runs on repository
// defaults and touches no persistent state. When present it is read as TOML
// from the --config flag, ~/.config/oshash/config.toml, or ./oshash.toml, in
// that order. Paths such as the index location accept tilde shortcuts.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical formats, and clear validation errors.
package config
