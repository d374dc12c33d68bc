package oshash

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestComputeVectors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		opts Options
		want string
	}{
		{"empty", nil, Options{}, "0000000000000000"},
		{"eight zero bytes", make([]byte, 8), Options{}, "0000000000000008"},
		{"one window of zeros", make([]byte, 8192), Options{}, "0000000000002000"},
		{"ascii word", []byte("abcdefgh"), Options{}, "6867666564636269"},
		{"ascii with partial word", []byte("hello, world!"), Options{}, "77202c6f6c6c6575"},
		{"window of 0xff", bytes.Repeat([]byte{0xff}, 8192), Options{}, "0000000000001c00"},
		{"overlapping windows", bytes.Repeat([]byte{0xff}, 8200), Options{}, "0000000000001808"},
		{"two windows of ones", bytes.Repeat([]byte{0x01}, 16384), Options{}, "0808080808084800"},
		{"pattern below window", pattern(12000), Options{}, "b48c643c13ebee94"},
		{"pattern above window", pattern(20000), Options{}, "3209e1b991698b54"},
		{"oshash minimum size", pattern(131072), OSHash(), "bf7b30eba75ef876"},
		{"oshash large", pattern(200000), OSHash(), "e19d5212c9812cd6"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Compute(FromBytes(tc.data), tc.opts)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if got.String() != tc.want {
				t.Fatalf("fingerprint = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestComputeShortSourcesHashToLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 1; n < 8; n++ {
		data := make([]byte, n)
		rng.Read(data)
		got, err := Sum(FromBytes(data))
		if err != nil {
			t.Fatalf("Sum(%d bytes): %v", n, err)
		}
		if uint64(got) != uint64(n) {
			t.Fatalf("Sum(%d bytes) = %d, want %d", n, uint64(got), n)
		}
	}
}

func TestComputeIgnoresMiddleBytes(t *testing.T) {
	data := pattern(40000)
	before, err := Sum(FromBytes(data))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}

	mutated := append([]byte(nil), data...)
	for _, off := range []int{8192, 20000, 40000 - 8192 - 1} {
		mutated[off] ^= 0xa5
	}
	after, err := Sum(FromBytes(mutated))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if before != after {
		t.Fatalf("middle mutation changed fingerprint: %s -> %s", before, after)
	}
}

func TestComputeDetectsHeadTailAndLengthChanges(t *testing.T) {
	data := pattern(40000)
	base, err := Sum(FromBytes(data))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}

	for _, off := range []int{0, 7, 8191, 40000 - 8192, 39999} {
		mutated := append([]byte(nil), data...)
		mutated[off]++
		got, err := Sum(FromBytes(mutated))
		if err != nil {
			t.Fatalf("Sum: %v", err)
		}
		if got == base {
			t.Fatalf("mutation at offset %d left fingerprint unchanged", off)
		}
	}

	appended, err := Sum(FromBytes(append(append([]byte(nil), data...), 0)))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if appended == base {
		t.Fatal("appending a byte left fingerprint unchanged")
	}
}

func TestComputeDeterministic(t *testing.T) {
	src := FromBytes(pattern(30000))
	first, err := Sum(src)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	second, err := Sum(src)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if first != second {
		t.Fatalf("fingerprint changed between calls: %s vs %s", first, second)
	}
}

// referenceSum is an independent rendition of the scheme over a fully
// buffered input, decoding words with binary.Read.
func referenceSum(t *testing.T, data []byte, window int) uint64 {
	t.Helper()
	chunk := min(len(data), window)
	regions := [][]byte{data[:chunk-chunk%8]}
	if len(data) > chunk {
		regions = append(regions, data[len(data)-chunk:])
	}
	sum := uint64(len(data))
	for _, region := range regions {
		words := make([]uint64, len(region)/8)
		if err := binary.Read(bytes.NewReader(region), binary.LittleEndian, &words); err != nil {
			t.Fatalf("binary.Read: %v", err)
		}
		for _, w := range words {
			sum += w
		}
	}
	return sum
}

func TestComputeMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sizes := []int{0, 1, 7, 8, 9, 15, 16, 100, 8191, 8192, 8193, 8199, 8200, 12345, 16383, 16384, 16385, 65536, 100003}
	for _, window := range []int{8, 64, 8192} {
		for _, size := range sizes {
			data := make([]byte, size)
			rng.Read(data)
			got, err := Compute(FromBytes(data), Options{Window: int64(window)})
			if err != nil {
				t.Fatalf("window %d size %d: %v", window, size, err)
			}
			if want := referenceSum(t, data, window); uint64(got) != want {
				t.Fatalf("window %d size %d: got %016x want %016x", window, size, uint64(got), want)
			}
		}
	}
}

func TestComputeStrict(t *testing.T) {
	_, err := Compute(FromBytes(pattern(131071)), OSHash())
	if !errors.Is(err, ErrTooSmall) {
		t.Fatalf("expected ErrTooSmall, got %v", err)
	}
	if _, err := Compute(FromBytes(pattern(131072)), OSHash()); err != nil {
		t.Fatalf("Compute at minimum size: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	for _, window := range []int64{-8, 1, 12, 8191, MaxWindow + 8} {
		if _, err := Compute(FromBytes(pattern(64)), Options{Window: window}); !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("window %d: expected ErrInvalidWindow, got %v", window, err)
		}
	}
	if err := (Options{}).Validate(); err != nil {
		t.Fatalf("zero options invalid: %v", err)
	}
	if err := (Options{Window: MaxWindow, Strict: true}).Validate(); err != nil {
		t.Fatalf("MaxWindow invalid: %v", err)
	}
}

func TestComputeStrictHugeWindow(t *testing.T) {
	_, err := Compute(FromBytes(pattern(64)), Options{Window: MaxWindow, Strict: true})
	if !errors.Is(err, ErrTooSmall) {
		t.Fatalf("expected ErrTooSmall, got %v", err)
	}
	_, err = Compute(FromBytes(pattern(64)), Options{Window: 1 << 62, Strict: true})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

type recordingReader struct {
	r     io.ReaderAt
	calls []int64
}

func (r *recordingReader) ReadAt(p []byte, off int64) (int, error) {
	r.calls = append(r.calls, off)
	return r.r.ReadAt(p, off)
}

func TestComputeReadPattern(t *testing.T) {
	cases := []struct {
		size  int
		calls []int64
	}{
		{0, nil},
		{5, nil},
		{8, []int64{0}},
		{8192, []int64{0}},
		{8193, []int64{0, 1}},
		{50000, []int64{0, 50000 - 8192}},
	}
	for _, tc := range cases {
		rec := &recordingReader{r: bytes.NewReader(pattern(tc.size))}
		if _, err := Sum(FromReaderAt(rec, int64(tc.size), "")); err != nil {
			t.Fatalf("size %d: %v", tc.size, err)
		}
		if len(rec.calls) != len(tc.calls) {
			t.Fatalf("size %d: reads at %v, want %v", tc.size, rec.calls, tc.calls)
		}
		for i := range tc.calls {
			if rec.calls[i] != tc.calls[i] {
				t.Fatalf("size %d: reads at %v, want %v", tc.size, rec.calls, tc.calls)
			}
		}
	}
}

func TestComputeShortReadFails(t *testing.T) {
	// Reported size is larger than the data, as when a file shrinks after stat.
	src := FromReaderAt(bytes.NewReader(pattern(1000)), 20000, "shrunk.bin")
	_, err := Sum(src)
	if !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ReadError, got %T", err)
	}
	if readErr.Source != "shrunk.bin" || readErr.Offset != 0 || readErr.Read != 1000 {
		t.Fatalf("unexpected read error details: %+v", readErr)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF cause, got %v", err)
	}
}

type failingReader struct{ err error }

func (f failingReader) ReadAt([]byte, int64) (int, error) { return 0, f.err }

func TestComputeReadFailurePropagates(t *testing.T) {
	cause := errors.New("device gone")
	_, err := Sum(FromReaderAt(failingReader{err: cause}, 64, ""))
	if !errors.Is(err, cause) || !errors.Is(err, ErrRead) {
		t.Fatalf("expected wrapped read failure, got %v", err)
	}
}

type brokenSizeSource struct{ failingReader }

func (brokenSizeSource) Size() (int64, error) { return 0, os.ErrPermission }

func TestComputeLengthFailure(t *testing.T) {
	_, err := Sum(brokenSizeSource{})
	if !errors.Is(err, ErrLength) || !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected length error, got %v", err)
	}
}

func TestFromFileLeavesOffsetUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bin")
	data := pattern(20000)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open sample: %v", err)
	}
	defer f.Close()

	if _, err := f.Seek(10, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	got, err := Sum(FromFile(f))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if got.String() != "3209e1b991698b54" {
		t.Fatalf("fingerprint = %s", got)
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos != 10 {
		t.Fatalf("file offset moved to %d", pos)
	}
}

func TestFingerprintText(t *testing.T) {
	fp := Fingerprint(0x1c00)
	if fp.String() != "0000000000001c00" {
		t.Fatalf("String = %q", fp.String())
	}
	var decoded Fingerprint
	if err := decoded.UnmarshalText([]byte("0000000000001c00")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if decoded != fp {
		t.Fatalf("decoded %s, want %s", decoded, fp)
	}
	for _, bad := range []string{"", "1c00", "zz00000000001c00", "00000000000001c000"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) succeeded", bad)
		}
	}
}
