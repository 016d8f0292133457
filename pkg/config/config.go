// Package config provides the unified configuration system for windrose.
// It defines a single BaseConfig structure consumed by the CLI and the
// pipeline orchestrator, ensuring consistent configuration across the system.
//
// The configuration is organized into logical sections:
//   - Performance: read-buffer capacity and pooling
//   - Parallel: segment count and worker concurrency
//   - Input: source location, compression, final-newline policy
//   - Logging: level, encoding, development mode
//   - Observability: metrics collection
//
// Example usage:
//
//	cfg := config.NewBaseConfig("measurements")
//	cfg.Parallel.Segments = 8
//	cfg.Parallel.Workers = 4
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"runtime"

	"github.com/windrose-io/windrose/pkg/errors"
)

// BaseConfig is the single configuration structure the pipeline consumes.
type BaseConfig struct {
	// Name identifies the run (used in logs and metrics labels)
	Name string `yaml:"name" json:"name"`

	// Performance settings control buffering and memory usage
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Parallel settings control segment planning and worker fan-out
	Parallel ParallelConfig `yaml:"parallel" json:"parallel"`

	// Input describes the source and its read policies
	Input InputConfig `yaml:"input" json:"input"`

	// Logging configures the structured logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Observability settings for monitoring
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// PerformanceConfig contains buffering and memory settings.
type PerformanceConfig struct {
	// ReadBufferSize is the capacity in bytes of each raw read from the
	// source. It is a tuning upper bound, not a correctness constraint:
	// lines longer than the buffer are reassembled via carry-over.
	ReadBufferSize int `yaml:"read_buffer_size" json:"read_buffer_size"`
}

// ParallelConfig contains settings for the parallel execution strategy.
type ParallelConfig struct {
	// Segments is the number of byte ranges the planner splits the source into
	Segments int `yaml:"segments" json:"segments"`
	// Workers bounds how many segments are processed concurrently.
	// Must not exceed Segments.
	Workers int `yaml:"workers" json:"workers"`
}

// InputConfig describes the source being aggregated.
type InputConfig struct {
	// Path is a local file path or an s3://bucket/key URL
	Path string `yaml:"path" json:"path"`
	// StrictFinalNewline rejects input whose last record has no trailing
	// newline. The default (false) accepts the final record, matching
	// common text-file conventions.
	StrictFinalNewline bool `yaml:"strict_final_newline" json:"strict_final_newline"`
	// S3 holds options for s3:// sources
	S3 S3Config `yaml:"s3" json:"s3"`
}

// S3Config contains options for reading from an S3-compatible object store.
type S3Config struct {
	// Region is the AWS region for the bucket
	Region string `yaml:"region" json:"region"`
	// Endpoint is an optional custom endpoint (for MinIO, LocalStack, etc.)
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// UsePathStyle enables path-style addressing (required for MinIO)
	UsePathStyle bool `yaml:"use_path_style" json:"use_path_style"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level" json:"level"`
	// Encoding is json or console
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored console output and stack traces
	Development bool `yaml:"development" json:"development"`
}

// ObservabilityConfig configures metrics collection.
type ObservabilityConfig struct {
	// EnableMetrics enables prometheus metric recording
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
}

// DefaultReadBufferSize is the raw read capacity used when none is configured.
const DefaultReadBufferSize = 1 << 20 // 1MB

// NewBaseConfig creates a configuration with sensible defaults.
func NewBaseConfig(name string) *BaseConfig {
	cfg := &BaseConfig{Name: name}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with defaults.
func (c *BaseConfig) ApplyDefaults() {
	if c.Performance.ReadBufferSize == 0 {
		c.Performance.ReadBufferSize = DefaultReadBufferSize
	}
	if c.Parallel.Segments == 0 {
		c.Parallel.Segments = runtime.NumCPU()
	}
	if c.Parallel.Workers == 0 {
		c.Parallel.Workers = c.Parallel.Segments
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = "console"
	}
}

// Validate checks the configuration for inconsistencies.
func (c *BaseConfig) Validate() error {
	if c.Performance.ReadBufferSize <= 0 {
		return errors.Newf(errors.ErrorTypeConfig,
			"read_buffer_size must be positive, got %d", c.Performance.ReadBufferSize)
	}
	if c.Parallel.Segments < 1 {
		return errors.Newf(errors.ErrorTypeConfig,
			"segments must be at least 1, got %d", c.Parallel.Segments)
	}
	if c.Parallel.Workers < 1 {
		return errors.Newf(errors.ErrorTypeConfig,
			"workers must be at least 1, got %d", c.Parallel.Workers)
	}
	if c.Parallel.Workers > c.Parallel.Segments {
		return errors.Newf(errors.ErrorTypeConfig,
			"workers (%d) must not exceed segments (%d)",
			c.Parallel.Workers, c.Parallel.Segments)
	}
	return nil
}
