package hasher

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"oshash/internal/logging"
	"oshash/internal/oshash"
)

var errIsDir = errors.New("is a directory")

// Result is the outcome of fingerprinting one path.
type Result struct {
	Path        string             `json:"path"`
	Size        int64              `json:"size"`
	Fingerprint oshash.Fingerprint `json:"fingerprint"`
	Err         error              `json:"-"`
}

// OK reports whether the path was fingerprinted.
func (r Result) OK() bool { return r.Err == nil }

// Hasher fingerprints files from a filesystem.
type Hasher struct {
	fs      afero.Fs
	opts    oshash.Options
	workers int
	logger  *slog.Logger
}

// New constructs a Hasher. workers <= 0 uses GOMAXPROCS.
func New(fs afero.Fs, opts oshash.Options, workers int, logger *slog.Logger) *Hasher {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hasher{
		fs:      fs,
		opts:    opts,
		workers: workers,
		logger:  logger.With(logging.FieldComponent, "hasher"),
	}
}

// Options returns the fingerprint options in use.
func (h *Hasher) Options() oshash.Options { return h.opts }

// HashFile fingerprints a single path. Failing to open or stat the path, or
// the path naming a directory, is reported as an *oshash.LengthError.
func (h *Hasher) HashFile(ctx context.Context, path string) Result {
	logger := logging.WithContext(ctx, h.logger).With(logging.FieldPath, path)
	res := Result{Path: path}

	f, err := h.fs.Open(path)
	if err != nil {
		res.Err = &oshash.LengthError{Source: path, Err: err}
		logger.Info("open failed", "error", err)
		return res
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		res.Err = &oshash.LengthError{Source: path, Err: err}
		logger.Info("stat failed", "error", err)
		return res
	}
	if info.IsDir() {
		res.Err = &oshash.LengthError{Source: path, Err: errIsDir}
		logger.Info("skipping directory")
		return res
	}

	res.Size = info.Size()
	fp, err := oshash.Compute(oshash.FromReaderAt(f, res.Size, path), h.opts)
	if err != nil {
		res.Err = err
		logger.Info("fingerprint failed", "error", err)
		return res
	}
	res.Fingerprint = fp
	logger.Debug("fingerprinted", "size", res.Size, "fingerprint", fp.String())
	return res
}

// HashAll fingerprints paths concurrently and returns results in input order.
// Paths not yet started when ctx is cancelled fail with the context error.
func (h *Hasher) HashAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(h.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			results[i] = h.HashFile(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	logging.WithContext(ctx, h.logger).Info("batch complete",
		"files", len(results),
		"failed", Failed(results),
		"workers", h.workers,
	)
	return results
}

// Failed counts results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
