// Package engine folds streams of complete-line buffers into per-station
// aggregates. It is the single consumer of the chunk reader: every buffer
// it receives is guaranteed by the scan package to contain only whole
// lines, so the engine's job is splitting on newlines, parsing, and
// pushing into the map.
//
// A malformed record aborts the whole fold immediately with enough context
// (absolute byte offset and line contents) to diagnose it. There is no
// skip-and-continue: a corrupted input must not silently yield a wrong
// aggregate.
package engine

import (
	"bytes"
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/windrose-io/windrose/pkg/aggregate"
	"github.com/windrose-io/windrose/pkg/errors"
	"github.com/windrose-io/windrose/pkg/metrics"
	"github.com/windrose-io/windrose/pkg/record"
	"github.com/windrose-io/windrose/pkg/scan"
)

// Engine aggregates one stream of complete-line buffers into a Map.
// Each engine instance owns the map it builds until Run returns.
type Engine struct {
	logger    *zap.Logger
	collector *metrics.Collector
}

// New creates an engine. A nil collector disables metric recording.
func New(logger *zap.Logger, collector *metrics.Collector) *Engine {
	if collector == nil {
		collector = metrics.NewNopCollector()
	}
	return &Engine{logger: logger, collector: collector}
}

// Run drains the reader and returns the aggregation map. The context is
// checked between chunks; cancellation surfaces as a cancelled error and
// the partially built map is discarded.
func (e *Engine) Run(ctx context.Context, r *scan.Reader) (aggregate.Map, error) {
	m := aggregate.NewMap()

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeCancelled, "aggregation cancelled")
		}

		chunk, err := r.Next()
		if err == io.EOF {
			return m, nil
		}
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			continue
		}

		if err := e.consume(chunk, r.Offset(), m); err != nil {
			return nil, err
		}
		e.collector.AddBytes(len(chunk))
	}
}

// consume folds every line of a complete-line buffer into the map.
// base is the source byte offset of chunk's first byte.
func (e *Engine) consume(chunk []byte, base int64, m aggregate.Map) error {
	records := 0
	pos := 0
	for pos < len(chunk) {
		nl := bytes.IndexByte(chunk[pos:], '\n')
		var line []byte
		if nl < 0 {
			// scan.Reader terminates every chunk with a newline; tolerate
			// a bare tail from other producers rather than dropping it.
			line = chunk[pos:]
			nl = len(line)
		} else {
			line = chunk[pos : pos+nl]
		}

		station, measurement, err := record.Parse(line)
		if err != nil {
			e.collector.IncMalformed()
			e.logger.Error("malformed record",
				zap.Int64("offset", base+int64(pos)),
				zap.ByteString("line", line),
			)
			return errors.Wrap(err, errors.ErrorTypeMalformed, "aggregation aborted").
				WithDetail("offset", base+int64(pos))
		}

		m.Push(station, measurement)
		records++
		pos += nl + 1
	}

	e.collector.AddRecords(records)
	return nil
}
