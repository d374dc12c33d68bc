package config

import (
	"errors"
	"fmt"

	"oshash/internal/oshash"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateHash(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateHash() error {
	if c.Hash.Window <= 0 || c.Hash.Window%8 != 0 {
		return fmt.Errorf("hash.window must be a positive multiple of 8, got %d", c.Hash.Window)
	}
	if c.Hash.Window > oshash.MaxWindow {
		return fmt.Errorf("hash.window must be at most %d, got %d", oshash.MaxWindow, c.Hash.Window)
	}
	if c.Hash.Workers < 0 {
		return errors.New("hash.workers must be >= 0")
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatTable:
		return nil
	default:
		return fmt.Errorf("output.format: unsupported value %q (want text, json, or table)", c.Output.Format)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
