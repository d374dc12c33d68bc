package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"oshash/internal/hasher"
	"oshash/internal/oshash"
)

// ErrLocked indicates another process holds the index open.
var ErrLocked = errors.New("index is locked by another oshash process")

// Entry is a recorded fingerprint.
type Entry struct {
	Path        string             `json:"path"`
	Size        int64              `json:"size"`
	Fingerprint oshash.Fingerprint `json:"fingerprint"`
	Window      int64              `json:"window"`
	Strict      bool               `json:"strict"`
	ScanID      string             `json:"scan_id"`
	RecordedAt  time.Time          `json:"recorded_at"`
}

// Store manages fingerprint persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open locks and opens the index at path, creating it and applying
// migrations as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("index path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire index lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: lock}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if unlockErr := s.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

// Record upserts every successful result under scanID in one transaction and
// returns the number of rows written.
func (s *Store) Record(ctx context.Context, scanID string, opts oshash.Options, results []hasher.Result) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin record tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fingerprints (
            path, size, fingerprint, window_bytes, strict, scan_id, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            size = excluded.size,
            fingerprint = excluded.fingerprint,
            window_bytes = excluded.window_bytes,
            strict = excluded.strict,
            scan_id = excluded.scan_id,
            recorded_at = excluded.recorded_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare record: %w", err)
	}
	defer stmt.Close()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	written := 0
	for _, r := range results {
		if !r.OK() {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			r.Path,
			r.Size,
			r.Fingerprint.String(),
			opts.WindowSize(),
			boolToInt(opts.Strict),
			scanID,
			timestamp,
		); err != nil {
			return 0, fmt.Errorf("record %s: %w", r.Path, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record: %w", err)
	}
	return written, nil
}

const selectColumns = "SELECT path, size, fingerprint, window_bytes, strict, scan_id, recorded_at FROM fingerprints"

// Get returns the entry for path, or nil when none is recorded.
func (s *Store) Get(ctx context.Context, path string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE path = ?", path)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return entry, nil
}

// List returns all entries ordered by path.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Forget deletes the entries for paths and returns how many were removed.
func (s *Store) Forget(ctx context.Context, paths ...string) (int64, error) {
	var removed int64
	for _, path := range paths {
		res, err := s.db.ExecContext(ctx, "DELETE FROM fingerprints WHERE path = ?", path)
		if err != nil {
			return removed, fmt.Errorf("forget %s: %w", path, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return removed, fmt.Errorf("rows affected: %w", err)
		}
		removed += n
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry    Entry
		fp       string
		strict   int
		recorded string
	)
	if err := row.Scan(&entry.Path, &entry.Size, &fp, &entry.Window, &strict, &entry.ScanID, &recorded); err != nil {
		return nil, err
	}
	parsed, err := oshash.Parse(fp)
	if err != nil {
		return nil, err
	}
	entry.Fingerprint = parsed
	entry.Strict = strict != 0
	if ts, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
		entry.RecordedAt = ts
	}
	return &entry, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
