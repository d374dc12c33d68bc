package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"oshash/internal/config"
	"oshash/internal/hasher"
	"oshash/internal/logging"
	"oshash/internal/oshash"
)

var errNoFiles = errors.New("no files provided to hash")

type commandContext struct {
	configFlag     string
	windowFlag     int64
	strictFlag     bool
	oshFlag        bool
	workersFlag    int
	formatFlag     string
	recursiveFlag  bool
	logLevelFlag   string
	logFormatFlag  string
	benchFlag      bool
	iterationsFlag int

	fs afero.Fs

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger
	runID      string
}

func newCommandContext() *commandContext {
	return &commandContext{fs: afero.NewOsFs()}
}

// ensureConfig loads the config once, applies flag overrides, and attaches
// the run id to the command context.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.applyOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}

		logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
		if err != nil {
			c.configErr = err
			return
		}

		c.config = cfg
		c.runID = uuid.NewString()
		c.logger = logger
		logging.WithContext(c.commandCtx(cmd), logger).Debug("configuration loaded",
			"window", cfg.Hash.Window,
			"strict", cfg.Hash.Strict,
			"workers", cfg.Hash.Workers,
			"format", cfg.Output.Format,
		)
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("osh") && c.oshFlag {
		cfg.Hash.Window = oshash.OSHashWindow
		cfg.Hash.Strict = true
	}
	if changed("window") {
		cfg.Hash.Window = c.windowFlag
	}
	if changed("strict") {
		cfg.Hash.Strict = c.strictFlag
	}
	if changed("workers") {
		cfg.Hash.Workers = c.workersFlag
	}
	if changed("format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(c.formatFlag))
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(c.logLevelFlag))
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(c.logFormatFlag))
	}
}

func (c *commandContext) commandCtx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.ContextWithRunID(ctx, c.runID)
}

func (c *commandContext) newHasher(cmd *cobra.Command) (*hasher.Hasher, error) {
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return nil, err
	}
	return hasher.New(c.fs, cfg.HashOptions(), cfg.Hash.Workers, c.logger), nil
}

// collect expands args and hashes them.
func (c *commandContext) collect(cmd *cobra.Command, args []string, recursive bool) ([]hasher.Result, error) {
	if len(args) == 0 {
		return nil, errNoFiles
	}
	h, err := c.newHasher(cmd)
	if err != nil {
		return nil, err
	}
	paths, err := hasher.Expand(c.fs, args, recursive)
	if err != nil {
		return nil, fmt.Errorf("expand paths: %w", err)
	}
	return h.HashAll(c.commandCtx(cmd), paths), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
