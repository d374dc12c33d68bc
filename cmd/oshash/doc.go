// Package main hosts the oshash CLI entrypoint and command graph.
//
// The root command prints "<fingerprint> <path>" for every argument, the way
// the classic oshash tool does. Subcommands group duplicates, record
// fingerprints into the SQLite index, check files against it, and scaffold
// configuration. Configuration resolution, logger setup, and flag overrides
// are centralized in commandContext so commands stay declarative.
//
// Keep this package lean: add functionality to the internal packages first,
// then surface it here.
package main
