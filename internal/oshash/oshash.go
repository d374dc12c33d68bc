package oshash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

const (
	wordSize = 8

	// DefaultWindow is the number of bytes sampled from each end of a source.
	DefaultWindow int64 = 8192
	// OSHashWindow is the window used by the OpenSubtitles hash.
	OSHashWindow int64 = 64 * 1024
	// MaxWindow is the largest usable window. Strict mode compares sizes
	// against two windows, which must fit in an int64.
	MaxWindow int64 = math.MaxInt64 / 2 &^ (wordSize - 1)
)

// Options controls how a fingerprint is computed. The zero value uses
// DefaultWindow without the minimum size requirement.
type Options struct {
	Window int64
	// Strict rejects sources shorter than two windows with ErrTooSmall.
	Strict bool
}

// OSHash returns options reproducing the OpenSubtitles hash exactly.
func OSHash() Options {
	return Options{Window: OSHashWindow, Strict: true}
}

// Validate reports whether the options can be used for Compute.
func (o Options) Validate() error {
	w := o.WindowSize()
	if w <= 0 || w%wordSize != 0 || w > MaxWindow {
		return fmt.Errorf("window %d: %w", w, ErrInvalidWindow)
	}
	return nil
}

// WindowSize returns the effective window, applying DefaultWindow to zero.
func (o Options) WindowSize() int64 {
	if o.Window == 0 {
		return DefaultWindow
	}
	return o.Window
}

// Fingerprint is the 64-bit partial-content hash of a source.
type Fingerprint uint64

// String renders the fingerprint as 16 lowercase hex digits.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Parse decodes the 16 hex digit form produced by Fingerprint.String.
func Parse(s string) (Fingerprint, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("parse fingerprint %q: want 16 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse fingerprint %q: %w", s, err)
	}
	return Fingerprint(v), nil
}

// Sum fingerprints src with the default options.
func Sum(src Source) (Fingerprint, error) {
	return Compute(src, Options{})
}

// Compute fingerprints src. It issues at most two reads against src, the head
// window followed by the tail window, and never retries a failed read.
//
// Sources no longer than the window are summed once. Longer sources have both
// windows summed independently, so bytes in an overlap are counted twice.
func Compute(src Source, opts Options) (Fingerprint, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	window := opts.WindowSize()
	name := sourceName(src)

	size, err := src.Size()
	if err != nil {
		return 0, &LengthError{Source: name, Err: err}
	}
	if size < 0 {
		return 0, &LengthError{Source: name, Err: fmt.Errorf("negative size %d", size)}
	}
	if opts.Strict && size < 2*window {
		return 0, fmt.Errorf("%s: %d bytes, need %d: %w", displayName(name), size, 2*window, ErrTooSmall)
	}

	chunk := min(size, window)
	buf := make([]byte, chunk)

	// Only whole words are summed; a trailing partial word is never read.
	head := buf[:chunk-chunk%wordSize]
	if err := readFull(src, name, head, 0); err != nil {
		return 0, err
	}
	acc := sumWords(head)

	if size > chunk {
		if err := readFull(src, name, buf, size-chunk); err != nil {
			return 0, err
		}
		acc += sumWords(buf)
	}

	return Fingerprint(acc + uint64(size)), nil
}

func readFull(r io.ReaderAt, name string, buf []byte, off int64) error {
	if len(buf) == 0 {
		return nil
	}
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		// ReaderAt may report io.EOF alongside a full read at the end.
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &ReadError{Source: name, Offset: off, Length: len(buf), Read: n, Err: err}
}

func sumWords(buf []byte) uint64 {
	var acc uint64
	for i := 0; i+wordSize <= len(buf); i += wordSize {
		acc += binary.LittleEndian.Uint64(buf[i:])
	}
	return acc
}

func displayName(name string) string {
	if name == "" {
		return "source"
	}
	return name
}
