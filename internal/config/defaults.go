package config

import "oshash/internal/oshash"

const (
	defaultOutputFormat = FormatText
	defaultLogFormat    = "console"
	defaultLogLevel     = "warn"
)

// Output formats understood by the CLI.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Hash: Hash{
			Window: oshash.DefaultWindow,
		},
		Output: Output{
			Format: defaultOutputFormat,
		},
		Index: Index{
			Path: defaultIndexPath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// HashOptions returns the fingerprint options described by the config.
func (c *Config) HashOptions() oshash.Options {
	return oshash.Options{Window: c.Hash.Window, Strict: c.Hash.Strict}
}
