package scan

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-io/windrose/pkg/errors"
)

// drain collects every chunk the reader produces until EOF or error.
func drain(t *testing.T, r *Reader) ([]string, error) {
	t.Helper()
	var chunks []string
	for {
		chunk, err := r.Next()
		if err == io.EOF {
			return chunks, nil
		}
		if err != nil {
			return chunks, err
		}
		if len(chunk) > 0 {
			chunks = append(chunks, string(chunk))
		}
	}
}

func TestReaderWholeInput(t *testing.T) {
	input := "a;1\nb;2\nc;3\n"
	r := NewReader(strings.NewReader(input), 4096, false)
	defer r.Close()

	chunks, err := drain(t, r)
	require.NoError(t, err)
	assert.Equal(t, input, strings.Join(chunks, ""))
}

func TestReaderCarryOverAcrossReads(t *testing.T) {
	// Capacity 4 forces every line to straddle read boundaries.
	input := "alpha;1.5\nbeta;-2.25\ngamma;3\n"
	r := NewReader(strings.NewReader(input), 4, false)
	defer r.Close()

	chunks, err := drain(t, r)
	require.NoError(t, err)

	joined := strings.Join(chunks, "")
	assert.Equal(t, input, joined)
	for _, chunk := range chunks {
		assert.True(t, strings.HasSuffix(chunk, "\n"), "chunk must end on a line boundary: %q", chunk)
	}
}

func TestReaderLineLongerThanCapacity(t *testing.T) {
	// One line several times the read capacity must still come out whole.
	long := strings.Repeat("x", 100) + ";42\n"
	r := NewReader(strings.NewReader(long), 8, false)
	defer r.Close()

	chunks, err := drain(t, r)
	require.NoError(t, err)
	assert.Equal(t, long, strings.Join(chunks, ""))
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""), 4096, false)
	defer r.Close()

	chunks, err := drain(t, r)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestReaderAcceptsMissingFinalNewline(t *testing.T) {
	input := "a;1\nb;2"
	r := NewReader(strings.NewReader(input), 4096, false)
	defer r.Close()

	chunks, err := drain(t, r)
	require.NoError(t, err)
	// The unterminated tail is accepted and a terminator synthesized.
	assert.Equal(t, "a;1\nb;2\n", strings.Join(chunks, ""))
}

func TestReaderStrictRejectsMissingFinalNewline(t *testing.T) {
	input := "a;1\nb;2"
	r := NewReader(strings.NewReader(input), 4096, true)
	defer r.Close()

	_, err := drain(t, r)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTruncated), "expected truncated_record, got %v", err)

	partial, ok := errors.Detail(err, "partial")
	require.True(t, ok)
	assert.Equal(t, "b;2", partial)
}

func TestReaderStrictAcceptsTerminatedInput(t *testing.T) {
	input := "a;1\nb;2\n"
	r := NewReader(strings.NewReader(input), 4096, true)
	defer r.Close()

	chunks, err := drain(t, r)
	require.NoError(t, err)
	assert.Equal(t, input, strings.Join(chunks, ""))
}

func TestReaderOffsetTracksChunkStart(t *testing.T) {
	input := "aa;1\nbb;2\ncc;3\n"
	r := NewReader(strings.NewReader(input), 5, false)
	defer r.Close()

	var offsets []int64
	var chunks []string
	for {
		chunk, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if len(chunk) > 0 {
			offsets = append(offsets, r.Offset())
			chunks = append(chunks, string(chunk))
		}
	}

	// Each recorded offset must point at its chunk within the input.
	for i, chunk := range chunks {
		assert.Equal(t, chunk, input[offsets[i]:offsets[i]+int64(len(chunk))])
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestReaderWrapsSourceErrors(t *testing.T) {
	r := NewReader(failingReader{}, 4096, false)
	defer r.Close()

	_, err := r.Next()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}
