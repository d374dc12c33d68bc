package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"oshash/internal/config"
	"oshash/internal/hasher"
)

const defaultBenchIterations = 1000

func runHash(cmd *cobra.Command, ctx *commandContext, args []string) error {
	cfg, err := ctx.ensureConfig(cmd)
	if err != nil {
		return err
	}

	if !ctx.benchFlag {
		results, err := ctx.collect(cmd, args, ctx.recursiveFlag)
		if err != nil {
			return err
		}
		if err := writeResults(cmd, cfg.Output.Format, results); err != nil {
			return err
		}
		return failureError(results)
	}

	if ctx.iterationsFlag < 1 {
		return fmt.Errorf("--iterations must be at least 1, got %d", ctx.iterationsFlag)
	}
	start := time.Now()
	var results []hasher.Result
	for i := 0; i < ctx.iterationsFlag; i++ {
		results, err = ctx.collect(cmd, args, ctx.recursiveFlag)
		if err != nil {
			return err
		}
		if n := hasher.Failed(results); n > 0 && i < ctx.iterationsFlag-1 {
			// Stop early and show the failing pass.
			break
		}
	}
	if err := writeResults(cmd, cfg.Output.Format, results); err != nil {
		return err
	}
	if err := failureError(results); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d files %dx in %s\n", len(results), ctx.iterationsFlag, time.Since(start))
	return nil
}

func writeResults(cmd *cobra.Command, format string, results []hasher.Result) error {
	out := cmd.OutOrStdout()
	switch format {
	case config.FormatJSON:
		records := make([]resultRecord, 0, len(results))
		for _, r := range results {
			records = append(records, toRecord(r))
		}
		if err := encodeJSON(out, records); err != nil {
			return err
		}
	case config.FormatTable:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			if r.OK() {
				rows = append(rows, []string{r.Fingerprint.String(), formatSize(r.Size), r.Path})
			}
		}
		if len(rows) > 0 {
			fmt.Fprintln(out, renderTable([]string{"Fingerprint", "Size", "Path"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
		}
	default:
		for _, r := range results {
			if r.OK() {
				fmt.Fprintf(out, "%s %s\n", r.Fingerprint, r.Path)
			}
		}
	}
	reportFailures(cmd.ErrOrStderr(), results)
	return nil
}
