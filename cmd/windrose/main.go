// Command windrose aggregates per-station min/mean/max statistics from
// newline-delimited "station;measurement" input, in a single pass over
// sources far larger than memory.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/windrose-io/windrose/internal/pipeline"
	"github.com/windrose-io/windrose/pkg/aggregate"
	"github.com/windrose-io/windrose/pkg/config"
	"github.com/windrose-io/windrose/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "windrose",
		Short: "windrose - single-pass station measurement aggregator",
		Long: `windrose computes the minimum, mean, and maximum measurement per station
from newline-delimited "station;value" input, streaming in bounded memory.
Input may be a local file (optionally gzip/zstd/lz4 compressed) or an
s3://bucket/key object; parallel runs split seekable input into
newline-aligned segments processed by independent workers.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("windrose v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newRunCommand())
	root.AddCommand(newBenchCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runFlags are the CLI overrides layered on top of the config file.
type runFlags struct {
	configFile         string
	strategy           string
	segments           int
	workers            int
	readBufferSize     int
	strictFinalNewline bool
	format             string
	logLevel           string
	enableMetrics      bool
	s3Region           string
	s3Endpoint         string
	s3PathStyle        bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", string(pipeline.StrategySequential), "execution strategy (sequential, parallel)")
	cmd.Flags().IntVar(&f.segments, "segments", 0, "number of byte-range segments for parallel runs (0 = NumCPU)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent workers, at most --segments (0 = segments)")
	cmd.Flags().IntVar(&f.readBufferSize, "buffer-size", 0, "read buffer capacity in bytes (0 = 1MB)")
	cmd.Flags().BoolVar(&f.strictFinalNewline, "strict-final-newline", false, "reject input whose last record lacks a trailing newline")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format (text, json)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&f.enableMetrics, "metrics", false, "enable prometheus metric recording")
	cmd.Flags().StringVar(&f.s3Region, "s3-region", "", "AWS region for s3:// input")
	cmd.Flags().StringVar(&f.s3Endpoint, "s3-endpoint", "", "custom S3 endpoint (MinIO, LocalStack)")
	cmd.Flags().BoolVar(&f.s3PathStyle, "s3-path-style", false, "use path-style S3 addressing")
}

// buildConfig loads the optional config file and overlays flag values.
func (f *runFlags) buildConfig(input string) (*config.BaseConfig, error) {
	cfg := config.NewBaseConfig("windrose")
	if f.configFile != "" {
		if err := config.Load(f.configFile, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Input.Path = input
	if f.segments > 0 {
		cfg.Parallel.Segments = f.segments
	}
	if f.workers > 0 {
		cfg.Parallel.Workers = f.workers
	}
	if f.readBufferSize > 0 {
		cfg.Performance.ReadBufferSize = f.readBufferSize
	}
	if f.strictFinalNewline {
		cfg.Input.StrictFinalNewline = true
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.enableMetrics {
		cfg.Observability.EnableMetrics = true
	}
	if f.s3Region != "" {
		cfg.Input.S3.Region = f.s3Region
	}
	if f.s3Endpoint != "" {
		cfg.Input.S3.Endpoint = f.s3Endpoint
	}
	if f.s3PathStyle {
		cfg.Input.S3.UsePathStyle = true
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Aggregate an input source and print the sorted results",
		Long: `Aggregate an input source and print per-station min/mean/max sorted by
station name.

Example:
  windrose run measurements.txt --strategy parallel --segments 8 --workers 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig(args[0])
			if err != nil {
				return err
			}
			if err := initLogger(cfg); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			strategy, err := pipeline.ParseStrategy(flags.strategy)
			if err != nil {
				return err
			}

			result, err := execute(cmd.Context(), cfg, strategy)
			if err != nil {
				return err
			}

			return printResult(result, flags.format)
		},
	}

	flags.register(cmd)
	return cmd
}

func newBenchCommand() *cobra.Command {
	flags := &runFlags{}
	var count int

	cmd := &cobra.Command{
		Use:   "bench <input>",
		Short: "Run the aggregation repeatedly and report timings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig(args[0])
			if err != nil {
				return err
			}
			if err := initLogger(cfg); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			strategy, err := pipeline.ParseStrategy(flags.strategy)
			if err != nil {
				return err
			}

			report, err := pipeline.Bench(cmd.Context(), count, logger.Get(),
				func(ctx context.Context) (*pipeline.Result, error) {
					return execute(ctx, cfg, strategy)
				})
			if err != nil {
				return err
			}

			return printBenchReport(report, flags.format)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&count, "count", 3, "number of iterations")
	return cmd
}

func initLogger(cfg *config.BaseConfig) error {
	return logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		Encoding:    cfg.Logging.Encoding,
	})
}

func printResult(result *pipeline.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result.Summaries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		fmt.Println(aggregate.FormatText(result.Summaries))
	}

	logger.Info("solved",
		zap.Duration("duration", result.Duration),
		zap.Int("stations", result.Stations),
	)
	return nil
}

func printBenchReport(report *pipeline.BenchReport, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("iterations: %d\n", report.Iterations)
	for i, d := range report.Durations {
		fmt.Printf("  run %d: %s\n", i+1, d)
	}
	fmt.Printf("best: %s  worst: %s  mean: %s\n", report.Best, report.Worst, report.Mean)
	fmt.Printf("peak rss: %.1f MB\n", float64(report.PeakRSS)/(1024*1024))
	return nil
}
