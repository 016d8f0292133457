package source

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/windrose-io/windrose/pkg/errors"
)

// IsCompressed reports whether the path names a supported compressed input.
func IsCompressed(path string) bool {
	switch filepath.Ext(path) {
	case ".gz", ".zst", ".lz4":
		return true
	}
	return false
}

// OpenStream opens a local file for sequential reading, transparently
// decompressing gzip, zstd, and lz4 inputs by extension. Compressed
// streams have no known decompressed length and no random access, so they
// only feed the sequential strategy.
func OpenStream(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the CLI invocation
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open input file").
			WithDetail("path", path)
	}

	switch filepath.Ext(path) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open gzip stream").
				WithDetail("path", path)
		}
		return &stream{r: gz, closers: []io.Closer{gz, f}}, nil

	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open zstd stream").
				WithDetail("path", path)
		}
		return &stream{r: zr, closers: []io.Closer{zr.IOReadCloser(), f}}, nil

	case ".lz4":
		return &stream{r: lz4.NewReader(f), closers: []io.Closer{f}}, nil

	default:
		return f, nil
	}
}

// stream couples a decompressing reader with the closers it owns.
type stream struct {
	r       io.Reader
	closers []io.Closer
}

func (s *stream) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *stream) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
