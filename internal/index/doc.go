// Package index persists fingerprints in SQLite so later runs can tell which
// files changed.
//
// The store is opt-in; plain hashing never touches it. A single writer is
// enforced with a flock on a sidecar lock file, and schema changes are applied
// from embedded migrations on open. Entries remember the window they were
// computed with because fingerprints from different windows are not
// comparable.
package index
