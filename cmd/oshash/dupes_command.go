package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"oshash/internal/config"
	"oshash/internal/hasher"
)

func newDupesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dupes <path>...",
		Short: "List files that share a fingerprint and size",
		Long: `Fingerprint every path and print groups of files with identical
fingerprints and sizes. Use -r to descend into directories.

Fingerprints only sample the ends of each file, so a group is a strong hint,
not proof, that its members are identical.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			results, err := ctx.collect(cmd, args, ctx.recursiveFlag)
			if err != nil {
				return err
			}
			groups := hasher.Duplicates(results)
			if err := writeDupes(cmd, cfg.Output.Format, groups); err != nil {
				return err
			}
			// Failed paths never join a group, so stderr is the only place
			// they are named.
			reportFailures(cmd.ErrOrStderr(), results)
			return failureError(results)
		},
	}
}

func writeDupes(cmd *cobra.Command, format string, groups [][]hasher.Result) error {
	out := cmd.OutOrStdout()
	switch format {
	case config.FormatJSON:
		var records [][]resultRecord
		for _, group := range groups {
			members := make([]resultRecord, 0, len(group))
			for _, r := range group {
				members = append(members, toRecord(r))
			}
			records = append(records, members)
		}
		return encodeJSON(out, records)
	case config.FormatTable:
		if len(groups) == 0 {
			fmt.Fprintln(out, "No duplicates found")
			return nil
		}
		var rows [][]string
		for i, group := range groups {
			for _, r := range group {
				rows = append(rows, []string{strconv.Itoa(i + 1), r.Fingerprint.String(), formatSize(r.Size), r.Path})
			}
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Group", "Fingerprint", "Size", "Path"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
		))
		return nil
	default:
		for i, group := range groups {
			if i > 0 {
				fmt.Fprintln(out)
			}
			for _, r := range group {
				fmt.Fprintf(out, "%s %s\n", r.Fingerprint, r.Path)
			}
		}
		return nil
	}
}
