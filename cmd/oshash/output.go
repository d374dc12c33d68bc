package main

import (
	"encoding/json"
	"fmt"
	"io"

	"oshash/internal/hasher"
)

type resultRecord struct {
	Path        string  `json:"path"`
	Size        int64   `json:"size"`
	Fingerprint *string `json:"fingerprint,omitempty"`
	Error       string  `json:"error,omitempty"`
}

func toRecord(r hasher.Result) resultRecord {
	rec := resultRecord{Path: r.Path, Size: r.Size}
	if r.Err != nil {
		rec.Error = r.Err.Error()
		return rec
	}
	fp := r.Fingerprint.String()
	rec.Fingerprint = &fp
	return rec
}

// encodeJSON writes items as an indented JSON array. A nil slice is written
// as [] so consumers never see null.
func encodeJSON[T any](w io.Writer, items []T) error {
	if items == nil {
		items = []T{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func reportFailures(w io.Writer, results []hasher.Result) {
	for _, r := range results {
		if !r.OK() {
			fmt.Fprintf(w, "oshash: %s: %v\n", r.Path, r.Err)
		}
	}
}

func failureError(results []hasher.Result) error {
	if n := hasher.Failed(results); n > 0 {
		return fmt.Errorf("failed to hash %d of %d files", n, len(results))
	}
	return nil
}
