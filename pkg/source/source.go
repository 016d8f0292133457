// Package source provides the byte sources windrose aggregates from:
// local files, S3 objects via ranged reads, and compressed streams.
//
// Random-access sources implement Source (ReaderAt plus a known size),
// which is what the segment planner and parallel workers require.
// Compressed inputs are stream-only: they decompress sequentially and
// cannot serve ranged reads, so the orchestrator restricts them to the
// sequential strategy.
package source

import (
	"io"
	"os"

	"github.com/windrose-io/windrose/pkg/errors"
)

// Source is a byte-addressable view of the input with a known length.
type Source interface {
	io.ReaderAt
	Size() int64
	Close() error
}

// File is a local file source.
type File struct {
	f    *os.File
	size int64
}

// OpenFile opens a local file as a random-access source.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the CLI invocation
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open input file").
			WithDetail("path", path)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to stat input file").
			WithDetail("path", path)
	}

	return &File{f: f, size: info.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (s *File) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

// Size returns the file length in bytes.
func (s *File) Size() int64 {
	return s.size
}

// Close releases the underlying file handle.
func (s *File) Close() error {
	return s.f.Close()
}

// SectionReader returns a sequential reader over [start, end) of a source.
// Parallel workers use one per segment; the sequential strategy uses one
// spanning the whole source.
func SectionReader(src Source, start, end int64) io.Reader {
	return io.NewSectionReader(src, start, end-start)
}
