// Package oshash computes partial-content fingerprints for files.
//
// This package has no oshash-specific dependencies and could be extracted
// as a standalone library.
//
// A fingerprint is the wrapping 64-bit sum of the little-endian words in the
// first and last window of a source, plus the source length. Only two ranged
// reads are issued per source regardless of its size, so fingerprints are
// cheap for very large media files. They are not collision resistant and are
// meant for change detection and duplicate grouping only.
//
// Primary entry points:
//   - Compute: fingerprints a Source with explicit Options
//   - Sum: fingerprints a Source with the default 8 KiB window
//   - FromFile, FromReaderAt, FromBytes: adapt common handles to Source
//
// With Options{Window: OSHashWindow, Strict: true} the output matches the
// OpenSubtitles hash (the pypi oshash package).
package oshash
