package main

import (
	"context"
	"strings"

	"github.com/windrose-io/windrose/internal/pipeline"
	"github.com/windrose-io/windrose/pkg/config"
	"github.com/windrose-io/windrose/pkg/errors"
	"github.com/windrose-io/windrose/pkg/logger"
	"github.com/windrose-io/windrose/pkg/source"
)

// execute opens the configured input and runs it through the selected
// strategy. Compressed inputs decompress as a stream, so they only
// support the sequential strategy; files and S3 objects are random
// access and support both.
func execute(ctx context.Context, cfg *config.BaseConfig, strategy pipeline.Strategy) (*pipeline.Result, error) {
	p := pipeline.New(cfg, logger.Get())
	path := cfg.Input.Path

	switch {
	case strings.HasPrefix(path, "s3://"):
		bucket, key, err := source.ParseS3URL(path)
		if err != nil {
			return nil, err
		}
		obj, err := source.OpenS3(ctx, bucket, key, source.S3Options{
			Region:       cfg.Input.S3.Region,
			Endpoint:     cfg.Input.S3.Endpoint,
			UsePathStyle: cfg.Input.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		defer obj.Close()
		return run(ctx, p, obj, strategy)

	case source.IsCompressed(path):
		if strategy == pipeline.StrategyParallel {
			return nil, errors.New(errors.ErrorTypeConfig,
				"compressed input is not seekable; use the sequential strategy").
				WithDetail("path", path)
		}
		stream, err := source.OpenStream(path)
		if err != nil {
			return nil, err
		}
		defer stream.Close()
		return p.RunSequential(ctx, stream)

	default:
		f, err := source.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return run(ctx, p, f, strategy)
	}
}

func run(ctx context.Context, p *pipeline.Pipeline, src source.Source, strategy pipeline.Strategy) (*pipeline.Result, error) {
	if strategy == pipeline.StrategyParallel {
		return p.RunParallel(ctx, src)
	}
	return p.RunSequential(ctx, source.SectionReader(src, 0, src.Size()))
}
