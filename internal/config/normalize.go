package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeOutput()
	if err := c.normalizeIndex(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
}

func (c *Config) normalizeIndex() error {
	if strings.TrimSpace(c.Index.Path) == "" {
		c.Index.Path = defaultIndexPath()
	}
	var err error
	if c.Index.Path, err = expandPath(strings.TrimSpace(c.Index.Path)); err != nil {
		return fmt.Errorf("index.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
