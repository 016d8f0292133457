// Package pipeline orchestrates windrose runs, composing the scan,
// engine, and aggregate packages into the two execution strategies.
//
// # Architecture
//
// Sequential: one chunk reader drains the whole source into one
// aggregation map, which is then finalized.
//
// Parallel: the segment planner computes newline-aligned byte ranges up
// front (a hard barrier, purely sequential); each segment is processed by
// an independent worker with its own reader and map, so the hot loop has
// no shared mutable state and needs no locks. The only synchronization
// point is the join barrier before the shard merge. The first error
// cancels the remaining workers and discards all partial maps.
package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/windrose-io/windrose/pkg/aggregate"
	"github.com/windrose-io/windrose/pkg/config"
	"github.com/windrose-io/windrose/pkg/engine"
	"github.com/windrose-io/windrose/pkg/errors"
	"github.com/windrose-io/windrose/pkg/metrics"
	"github.com/windrose-io/windrose/pkg/scan"
	"github.com/windrose-io/windrose/pkg/source"
)

// Strategy names an execution strategy.
type Strategy string

const (
	// StrategySequential processes the source in one pass on one goroutine
	StrategySequential Strategy = "sequential"
	// StrategyParallel splits the source into segments processed concurrently
	StrategyParallel Strategy = "parallel"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategySequential, StrategyParallel:
		return Strategy(name), nil
	}
	return "", errors.Newf(errors.ErrorTypeConfig, "unknown strategy %q", name)
}

// Result carries the finalized summaries and run statistics.
type Result struct {
	Summaries []aggregate.Summary
	Stations  int
	Duration  time.Duration
}

// Pipeline executes runs against a configuration.
type Pipeline struct {
	cfg       *config.BaseConfig
	logger    *zap.Logger
	collector *metrics.Collector
}

// New creates a pipeline for the given configuration.
func New(cfg *config.BaseConfig, logger *zap.Logger) *Pipeline {
	collector := metrics.NewNopCollector()
	if cfg.Observability.EnableMetrics {
		collector = metrics.NewCollector("pipeline")
	}
	return &Pipeline{cfg: cfg, logger: logger, collector: collector}
}

// RunSequential drains a sequential byte stream through one engine.
// This is the only strategy available to non-seekable (compressed) input.
func (p *Pipeline) RunSequential(ctx context.Context, src io.Reader) (*Result, error) {
	start := time.Now()

	reader := scan.NewReader(src, p.cfg.Performance.ReadBufferSize, p.cfg.Input.StrictFinalNewline)
	defer reader.Close()

	eng := engine.New(p.logger.Named("engine"), p.collector)
	m, err := eng.Run(ctx, reader)
	if err != nil {
		return nil, err
	}

	return p.finalize(m, start), nil
}

// RunParallel plans segments, fans out one worker per segment bounded by
// the configured worker count, merges the shard maps, and finalizes.
func (p *Pipeline) RunParallel(ctx context.Context, src source.Source) (*Result, error) {
	start := time.Now()

	segments, err := scan.Plan(src, src.Size(), p.cfg.Parallel.Segments)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("planned segments",
		zap.Int("requested", p.cfg.Parallel.Segments),
		zap.Int("planned", len(segments)),
		zap.Int64("source_size", src.Size()),
	)

	maps := make([]aggregate.Map, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Parallel.Workers)

	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			segStart := time.Now()

			reader := scan.NewReader(
				source.SectionReader(src, seg.Start, seg.End),
				p.cfg.Performance.ReadBufferSize,
				p.cfg.Input.StrictFinalNewline,
			)
			defer reader.Close()

			eng := engine.New(p.logger.Named("engine").With(zap.Int("segment", i)), p.collector)
			m, err := eng.Run(gctx, reader)
			if err != nil {
				return errWithSegment(err, i)
			}

			maps[i] = m
			p.collector.ObserveSegment(time.Since(segStart))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := aggregate.MergeAll(maps...)
	return p.finalize(merged, start), nil
}

func (p *Pipeline) finalize(m aggregate.Map, start time.Time) *Result {
	summaries := aggregate.Finalize(m)
	result := &Result{
		Summaries: summaries,
		Stations:  len(summaries),
		Duration:  time.Since(start),
	}
	p.logger.Info("run complete",
		zap.Int("stations", result.Stations),
		zap.Duration("duration", result.Duration),
	)
	return result
}

// errWithSegment tags a worker failure with its segment index so callers
// can reconstruct where the run failed.
func errWithSegment(err error, segment int) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		e.WithDetail("segment", segment)
	}
	return err
}
