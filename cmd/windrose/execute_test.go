package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windrose-io/windrose/internal/pipeline"
	"github.com/windrose-io/windrose/pkg/config"
	"github.com/windrose-io/windrose/pkg/errors"
	"github.com/windrose-io/windrose/pkg/testutil"
)

func writeGzipFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte(testutil.FixtureInput))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExecuteLocalFileParallel(t *testing.T) {
	cfg := config.NewBaseConfig("test")
	cfg.Input.Path = testutil.WriteTempFile(t, "input.txt", testutil.FixtureInput)
	cfg.Parallel.Segments = 2
	cfg.Parallel.Workers = 2

	result, err := execute(context.Background(), cfg, pipeline.StrategyParallel)
	require.NoError(t, err)
	assert.Len(t, result.Summaries, len(testutil.FixtureExpected))
}

func TestExecuteCompressedSequential(t *testing.T) {
	cfg := config.NewBaseConfig("test")
	cfg.Input.Path = writeGzipFixture(t)

	result, err := execute(context.Background(), cfg, pipeline.StrategySequential)
	require.NoError(t, err)
	require.Len(t, result.Summaries, len(testutil.FixtureExpected))
	for i, want := range testutil.FixtureExpected {
		assert.Equal(t, want.Station, result.Summaries[i].Station)
		assert.Equal(t, want.Min, result.Summaries[i].Min)
		assert.Equal(t, want.Max, result.Summaries[i].Max)
		assert.InDelta(t, want.Avg, result.Summaries[i].Avg, 1e-9)
	}
}

func TestExecuteCompressedRejectsParallel(t *testing.T) {
	cfg := config.NewBaseConfig("test")
	cfg.Input.Path = writeGzipFixture(t)

	_, err := execute(context.Background(), cfg, pipeline.StrategyParallel)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestExecuteBadS3URL(t *testing.T) {
	cfg := config.NewBaseConfig("test")
	cfg.Input.Path = "s3://bucket-without-key"

	_, err := execute(context.Background(), cfg, pipeline.StrategySequential)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
