package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/windrose-io/windrose/pkg/errors"
)

// BenchReport aggregates timings over repeated runs of the same input.
type BenchReport struct {
	Iterations int             `json:"iterations"`
	Durations  []time.Duration `json:"durations"`
	Best       time.Duration   `json:"best"`
	Worst      time.Duration   `json:"worst"`
	Mean       time.Duration   `json:"mean"`
	PeakRSS    uint64          `json:"peak_rss_bytes"`
	Stations   int             `json:"stations"`
}

// Bench executes run the given number of times, recording wall-clock
// durations and the peak resident set size observed after each iteration.
// The first failing iteration aborts the benchmark.
func Bench(ctx context.Context, iterations int, logger *zap.Logger, run func(context.Context) (*Result, error)) (*BenchReport, error) {
	if iterations < 1 {
		return nil, errors.Newf(errors.ErrorTypeConfig, "iterations must be at least 1, got %d", iterations)
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to open process handle")
	}

	report := &BenchReport{
		Iterations: iterations,
		Durations:  make([]time.Duration, 0, iterations),
	}

	var total time.Duration
	for i := 0; i < iterations; i++ {
		result, err := run(ctx)
		if err != nil {
			return nil, err
		}

		report.Durations = append(report.Durations, result.Duration)
		report.Stations = result.Stations
		total += result.Duration

		if report.Best == 0 || result.Duration < report.Best {
			report.Best = result.Duration
		}
		if result.Duration > report.Worst {
			report.Worst = result.Duration
		}

		if mem, err := proc.MemoryInfo(); err == nil && mem.RSS > report.PeakRSS {
			report.PeakRSS = mem.RSS
		}

		logger.Info("bench iteration",
			zap.Int("iteration", i+1),
			zap.Duration("duration", result.Duration),
			zap.Int("stations", result.Stations),
		)
	}

	report.Mean = total / time.Duration(iterations)
	return report, nil
}
