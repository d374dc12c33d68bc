package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"oshash/internal/config"
	"oshash/internal/hasher"
	"oshash/internal/index"
	"oshash/internal/logging"
)

var errChangesDetected = errors.New("changes detected")

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index <path>...",
		Short: "Record fingerprints in the index",
		Long: `Fingerprint every path and store the results in the SQLite index so a
later "oshash check" can report which files changed. Paths are stored as
absolute paths. Use -r to descend into directories.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			results, err := ctx.collectAbs(cmd, args)
			if err != nil {
				return err
			}

			store, err := ctx.openIndex(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			scanID := uuid.NewString()
			written, err := store.Record(cmd.Context(), scanID, cfg.HashOptions(), results)
			if err != nil {
				return err
			}
			logging.WithContext(ctx.commandCtx(cmd), ctx.logger).Info("index updated",
				logging.FieldScanID, scanID,
				"recorded", written,
				"index", store.Path(),
			)

			reportFailures(cmd.ErrOrStderr(), results)
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d of %d files in %s (scan %s)\n", written, len(results), store.Path(), scanID)
			return failureError(results)
		},
	}

	indexCmd.AddCommand(newIndexListCommand(ctx))
	indexCmd.AddCommand(newIndexForgetCommand(ctx))
	return indexCmd
}

func newIndexListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show recorded fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			store, err := ctx.openIndex(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch cfg.Output.Format {
			case config.FormatJSON:
				return encodeJSON(out, entries)
			case config.FormatTable:
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Fingerprint.String(),
						formatSize(e.Size),
						fmt.Sprintf("%d", e.Window),
						e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
						e.Path,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Fingerprint", "Size", "Window", "Recorded", "Path"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
			default:
				for _, e := range entries {
					fmt.Fprintf(out, "%s %s\n", e.Fingerprint, e.Path)
				}
			}
			return nil
		},
	}
}

func newIndexForgetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <path>...",
		Short: "Remove paths from the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			store, err := ctx.openIndex(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Forget(cmd.Context(), paths...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
			return nil
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>...",
		Short: "Compare files against the index",
		Long: `Fingerprint every path and compare it with the index. Each path is
reported as unchanged, modified, new, window-mismatch, or failed. The command
exits non-zero when any path is not unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			results, err := ctx.collectAbs(cmd, args)
			if err != nil {
				return err
			}
			store, err := ctx.openIndex(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			changes, err := store.Compare(cmd.Context(), cfg.HashOptions(), results)
			if err != nil {
				return err
			}
			if err := writeChanges(cmd, cfg.Output.Format, changes); err != nil {
				return err
			}
			for _, c := range changes {
				if c.Changed() {
					return errChangesDetected
				}
			}
			return nil
		},
	}
}

type changeRecord struct {
	Path     string       `json:"path"`
	Status   index.Status `json:"status"`
	Previous string       `json:"previous,omitempty"`
	Current  string       `json:"current,omitempty"`
	Error    string       `json:"error,omitempty"`
}

func writeChanges(cmd *cobra.Command, format string, changes []index.Change) error {
	out := cmd.OutOrStdout()
	switch format {
	case config.FormatJSON:
		records := make([]changeRecord, 0, len(changes))
		for _, c := range changes {
			rec := changeRecord{Path: c.Path, Status: c.Status}
			if c.Status != index.StatusNew && c.Status != index.StatusFailed {
				rec.Previous = c.Previous.String()
			}
			if c.Err != nil {
				rec.Error = c.Err.Error()
			} else {
				rec.Current = c.Current.String()
			}
			records = append(records, rec)
		}
		return encodeJSON(out, records)
	case config.FormatTable:
		rows := make([][]string, 0, len(changes))
		for _, c := range changes {
			prev, cur := "-", "-"
			if c.Status != index.StatusNew && c.Status != index.StatusFailed {
				prev = c.Previous.String()
			}
			if c.Err == nil {
				cur = c.Current.String()
			}
			rows = append(rows, []string{string(c.Status), prev, cur, c.Path})
		}
		fmt.Fprintln(out, renderTable([]string{"Status", "Recorded", "Current", "Path"}, rows, nil))
	default:
		for _, c := range changes {
			fmt.Fprintf(out, "%-15s %s\n", c.Status, c.Path)
		}
	}
	for _, c := range changes {
		if c.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "oshash: %s: %v\n", c.Path, c.Err)
		}
	}
	return nil
}

// openIndex opens the configured index, flagging lock contention in the logs
// so it stands out from ordinary failures.
func (c *commandContext) openIndex(cmd *cobra.Command, cfg *config.Config) (*index.Store, error) {
	store, err := index.Open(cmd.Context(), cfg.Index.Path)
	if errors.Is(err, index.ErrLocked) {
		logging.WithContext(c.commandCtx(cmd), c.logger).Warn("index is in use",
			logging.FieldAlert, "index_locked",
			"index", cfg.Index.Path,
		)
	}
	return store, err
}

// collectAbs hashes args after expanding them and making them absolute, so
// index keys do not depend on the working directory.
func (c *commandContext) collectAbs(cmd *cobra.Command, args []string) ([]hasher.Result, error) {
	paths, err := absPaths(args)
	if err != nil {
		return nil, err
	}
	return c.collect(cmd, paths, c.recursiveFlag)
}

func absPaths(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		out = append(out, abs)
	}
	return out, nil
}
