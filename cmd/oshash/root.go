package main

import (
	"github.com/spf13/cobra"
)

var version = "0.2.0"

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "oshash [flags] <file>...",
		Short:         "Fingerprint files from their size and first and last bytes",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd, ctx, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	flags.Int64Var(&ctx.windowFlag, "window", 0, "Bytes sampled from each end of a file (multiple of 8)")
	flags.BoolVar(&ctx.strictFlag, "strict", false, "Refuse files smaller than two windows")
	flags.BoolVar(&ctx.oshFlag, "osh", false, "OpenSubtitles-compatible hashing (64 KiB window, strict)")
	flags.IntVarP(&ctx.workersFlag, "workers", "j", 0, "Files hashed concurrently (0 = one per CPU)")
	flags.StringVarP(&ctx.formatFlag, "format", "f", "", "Output format: text, json, or table")
	flags.BoolVarP(&ctx.recursiveFlag, "recursive", "r", false, "Descend into directories")
	flags.StringVar(&ctx.logLevelFlag, "log-level", "", "Log level: debug, info, warn, or error")
	flags.StringVar(&ctx.logFormatFlag, "log-format", "", "Log format: console or json")

	rootCmd.Flags().BoolVar(&ctx.benchFlag, "bench", false, "Hash the files repeatedly and report the elapsed time")
	rootCmd.Flags().IntVar(&ctx.iterationsFlag, "iterations", defaultBenchIterations, "Passes over the file list with --bench")

	rootCmd.AddCommand(newDupesCommand(ctx))
	rootCmd.AddCommand(newIndexCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
