package scan

import (
	"io"

	"github.com/windrose-io/windrose/pkg/errors"
	"github.com/windrose-io/windrose/pkg/pool"
)

// Segment is a half-open byte range [Start, End) of the input source.
type Segment struct {
	Start int64
	End   int64
}

// Len returns the number of bytes in the segment.
func (s Segment) Len() int64 {
	return s.End - s.Start
}

// Plan computes up to n contiguous segments of the source whose cut points
// land exactly after a newline, for parallel processing. The segments
// partition [0, size) exactly: no gap, no overlap, first Start is 0, last
// End is size. When the source is shorter than the probe granularity the
// plan may contain fewer than n segments, never more.
//
// Each boundary is found by probing floor(size/n) bytes at the cursor and
// scanning backward for the last newline, the same scan the carry-over
// protocol uses. A probe without any newline means a single line exceeds
// the probe window; that fails with no_boundary rather than silently
// dropping bytes. Callers may retry with fewer segments.
func Plan(src io.ReaderAt, size int64, n int) ([]Segment, error) {
	if n < 1 {
		return nil, errors.Newf(errors.ErrorTypeConfig, "segment count must be at least 1, got %d", n)
	}
	if size == 0 {
		return nil, nil
	}
	if n == 1 {
		return []Segment{{Start: 0, End: size}}, nil
	}

	target := size / int64(n)
	if target < 1 {
		target = size
	}

	probe := pool.GlobalBufferPool.Get(int(target))
	defer pool.GlobalBufferPool.Put(probe)

	segments := make([]Segment, 0, n)
	cursor := int64(0)

	for i := 0; i < n && cursor < size; i++ {
		// The final segment always extends to end of source.
		if i == n-1 || size-cursor <= target {
			segments = append(segments, Segment{Start: cursor, End: size})
			cursor = size
			break
		}

		m, err := src.ReadAt(probe, cursor)
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "probe read failed").
				WithDetail("segment", i).
				WithDetail("offset", cursor)
		}

		complete, _ := SplitLines(probe[:m])
		if len(complete) == 0 {
			return nil, errors.New(errors.ErrorTypeNoBoundary, "no line boundary in probe window").
				WithDetail("segment", i).
				WithDetail("offset", cursor).
				WithDetail("probe_size", target)
		}

		end := cursor + int64(len(complete))
		segments = append(segments, Segment{Start: cursor, End: end})
		cursor = end
	}

	// Guaranteed by the loop, kept as a hard check: coverage must be exact.
	if cursor != size {
		segments[len(segments)-1].End = size
	}

	return segments, nil
}
