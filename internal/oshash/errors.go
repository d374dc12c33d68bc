package oshash

import (
	"errors"
	"fmt"
)

var (
	// ErrLength classifies failures to determine the size of a source.
	ErrLength = errors.New("source length unavailable")
	// ErrRead classifies failures to read a sampled window.
	ErrRead = errors.New("source read failed")
	// ErrTooSmall is returned in strict mode for sources shorter than two windows.
	ErrTooSmall = errors.New("file size too small")
	// ErrInvalidWindow is returned for windows that are not positive multiples
	// of 8 or exceed MaxWindow.
	ErrInvalidWindow = errors.New("window must be a positive multiple of 8 no larger than MaxWindow")
)

// LengthError reports that a source could not report its size.
type LengthError struct {
	Source string
	Err    error
}

func (e *LengthError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("query length: %v", e.Err)
	}
	return fmt.Sprintf("query length of %s: %v", e.Source, e.Err)
}

func (e *LengthError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrLength) match any LengthError.
func (e *LengthError) Is(target error) bool { return target == ErrLength }

// ReadError reports that a window could not be read in full.
type ReadError struct {
	Source string
	Offset int64
	Length int
	// Read is the number of bytes obtained before the failure.
	Read int
	Err  error
}

func (e *ReadError) Error() string {
	where := fmt.Sprintf("%d bytes at offset %d", e.Length, e.Offset)
	if e.Source != "" {
		where += " of " + e.Source
	}
	return fmt.Sprintf("read %s (got %d): %v", where, e.Read, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrRead) match any ReadError.
func (e *ReadError) Is(target error) bool { return target == ErrRead }
