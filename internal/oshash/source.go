package oshash

import (
	"bytes"
	"io"
	"io/fs"
)

// Source is a length-queryable, randomly readable byte sequence. Compute only
// borrows a Source for the duration of the call and never writes or seeks it.
type Source interface {
	io.ReaderAt
	Size() (int64, error)
}

// namer is implemented by sources that can identify themselves in errors.
type namer interface {
	Name() string
}

func sourceName(src Source) string {
	if n, ok := src.(namer); ok {
		return n.Name()
	}
	return ""
}

// File is the subset of *os.File and afero.File used by FromFile.
type File interface {
	io.ReaderAt
	Stat() (fs.FileInfo, error)
	Name() string
}

// FromFile adapts an open file. The size is taken from Stat at compute time.
func FromFile(f File) Source {
	return fileSource{f: f}
}

type fileSource struct {
	f File
}

func (s fileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }

func (s fileSource) Name() string { return s.f.Name() }

func (s fileSource) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FromReaderAt adapts r with a caller-supplied size. name may be empty.
func FromReaderAt(r io.ReaderAt, size int64, name string) Source {
	return sizedSource{r: r, size: size, name: name}
}

type sizedSource struct {
	r    io.ReaderAt
	size int64
	name string
}

func (s sizedSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }

func (s sizedSource) Size() (int64, error) { return s.size, nil }

func (s sizedSource) Name() string { return s.name }

// FromBytes adapts an in-memory buffer.
func FromBytes(b []byte) Source {
	return FromReaderAt(bytes.NewReader(b), int64(len(b)), "")
}
