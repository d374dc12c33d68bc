// Package hasher fingerprints many files at once.
//
// It opens paths through an afero filesystem, bounds concurrency with an
// errgroup, and returns one Result per input path in input order. A failure
// on one path is recorded in its Result and never stops the others. It also
// expands directories and groups results into duplicate sets.
package hasher
