package index

import (
	"context"

	"oshash/internal/hasher"
	"oshash/internal/oshash"
)

// Status classifies a file against its recorded fingerprint.
type Status string

const (
	// StatusUnchanged means size and fingerprint match the recorded entry.
	StatusUnchanged Status = "unchanged"
	// StatusModified means the size or fingerprint differs from the entry.
	StatusModified Status = "modified"
	// StatusNew means the path has no recorded entry.
	StatusNew Status = "new"
	// StatusWindowMismatch means the entry was recorded with a different
	// window, so the fingerprints are not comparable.
	StatusWindowMismatch Status = "window-mismatch"
	// StatusFailed means the current fingerprint could not be computed.
	StatusFailed Status = "failed"
)

// Change is the comparison outcome for one path.
type Change struct {
	Path     string             `json:"path"`
	Status   Status             `json:"status"`
	Previous oshash.Fingerprint `json:"previous"`
	Current  oshash.Fingerprint `json:"current"`
	Err      error              `json:"-"`
}

// Changed reports whether the path needs attention.
func (c Change) Changed() bool {
	return c.Status != StatusUnchanged
}

// Compare classifies each result against the stored entry for its path.
func (s *Store) Compare(ctx context.Context, opts oshash.Options, results []hasher.Result) ([]Change, error) {
	changes := make([]Change, 0, len(results))
	for _, r := range results {
		change := Change{Path: r.Path, Current: r.Fingerprint}
		if !r.OK() {
			change.Status = StatusFailed
			change.Err = r.Err
			changes = append(changes, change)
			continue
		}

		entry, err := s.Get(ctx, r.Path)
		if err != nil {
			return nil, err
		}
		switch {
		case entry == nil:
			change.Status = StatusNew
		case entry.Window != opts.WindowSize():
			change.Status = StatusWindowMismatch
			change.Previous = entry.Fingerprint
		case entry.Size == r.Size && entry.Fingerprint == r.Fingerprint:
			change.Status = StatusUnchanged
			change.Previous = entry.Fingerprint
		default:
			change.Status = StatusModified
			change.Previous = entry.Fingerprint
		}
		changes = append(changes, change)
	}
	return changes, nil
}
