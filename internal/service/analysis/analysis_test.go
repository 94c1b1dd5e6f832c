package analysis

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/codestat/internal/cache"
	"github.com/panbanda/codestat/pkg/config"
	"github.com/panbanda/codestat/pkg/models"
)

const goSource = `package main

// Add returns the sum.
func Add(a, b int) int {
	return a + b
}
`

const pySource = `def greet(name):
    if name:
        return "hi " + name
    return "hi"
`

var fixedNow = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

func writeProject(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{"main.go": goSource, "greet.py": pySource}
	var paths []string
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		paths = append(paths, p)
	}
	return dir, paths
}

func newService(opts ...Option) *Service {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
		WithVersion("test"),
	}
	return New(append(base, opts...)...)
}

func runOptions(depth models.AnalysisDepth) Options {
	return Options{Depth: depth, Workers: 2, Commit: "c0ffee"}
}

func TestNewDefaults(t *testing.T) {
	svc := New()
	assert.NotNil(t, svc.config)
	assert.Nil(t, svc.cache)
	assert.NotNil(t, svc.source)
	assert.NotNil(t, svc.opener)
	assert.Equal(t, "dev", svc.version)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analysis.Depth = "advanced"
	cfg.Analysis.Workers = 3
	cfg.Analysis.MaxFileSize = 512

	got := New(WithConfig(cfg)).Options()
	assert.Equal(t, Options{Depth: models.DepthAdvanced, Workers: 3, MaxFileSize: 512}, got)
}

func TestAnalyzeProjectCounts(t *testing.T) {
	_, paths := writeProject(t)

	res, err := newService().AnalyzeProject(context.Background(), paths, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Nil(t, res.Errors)

	basic := res.Stats.Basic
	assert.Equal(t, 2, basic.TotalFiles)
	assert.Equal(t, 10, basic.TotalLines)
	assert.Equal(t, basic.TotalLines, basic.CodeLines+basic.CommentLines+basic.DocLines+basic.BlankLines)
	assert.Equal(t, []string{".go", ".py"}, basic.Extensions())
	assert.Equal(t, 6, basic.StatsByExtension[".go"].Stats.TotalLines)

	assert.Equal(t, 2, res.Stats.Complexity.FunctionCount)
	assert.Equal(t, []string{"Go", "Python"}, res.Stats.Metadata.Languages)
	assert.Equal(t, "c0ffee", res.Stats.Metadata.Commit)
	assert.Equal(t, "test", res.Stats.Metadata.ToolVersion)
	assert.Equal(t, fixedNow, res.Stats.Metadata.Timestamp)
	assert.Equal(t, int64(0), res.Stats.Metadata.CalculationTimeMs)
	assert.InDelta(t, float64(basic.CodeLines)/10, res.Stats.Ratios.CodeRatio, 1e-9)
}

func TestAnalyzeProjectDepths(t *testing.T) {
	_, paths := writeProject(t)
	svc := newService()

	tests := []struct {
		depth          models.AnalysisDepth
		wantRatios     bool
		wantComplexity bool
		wantQuality    bool
	}{
		{models.DepthBasic, false, false, false},
		{models.DepthStandard, true, false, false},
		{models.DepthAdvanced, true, true, false},
		{models.DepthComplete, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.depth.String(), func(t *testing.T) {
			res, err := svc.AnalyzeProject(context.Background(), paths, runOptions(tt.depth))
			require.NoError(t, err)

			s := res.Stats
			assert.Equal(t, tt.depth, s.Metadata.Depth)
			assert.Equal(t, 2, s.Basic.TotalFiles)
			assert.Equal(t, tt.wantRatios, s.Ratios.CodeRatio > 0)
			assert.Equal(t, tt.wantComplexity, s.Complexity.FunctionCount > 0)
			assert.Equal(t, tt.wantQuality, s.Complexity.QualityMetrics.CodeHealthScore > 0)
			assert.Equal(t, tt.wantQuality, s.Ratios.QualityMetrics.OverallQualityScore > 0)
		})
	}
}

func TestAnalyzeProjectSkipsUnreadableFiles(t *testing.T) {
	dir, paths := writeProject(t)
	missing := filepath.Join(dir, "gone.go")

	res, err := newService().AnalyzeProject(context.Background(), append(paths, missing), runOptions(models.DepthComplete))
	require.NoError(t, err)

	require.NotNil(t, res.Errors)
	require.Equal(t, 1, res.Errors.Len())
	assert.Equal(t, missing, res.Errors.Errors[0].Path)
	assert.ErrorIs(t, res.Errors, os.ErrNotExist)
	assert.ErrorIs(t, res.Errors, models.ErrFileProcessing)
	assert.Equal(t, 2, res.Stats.Basic.TotalFiles)
}

func TestAnalyzeProjectMaxFileSize(t *testing.T) {
	_, paths := writeProject(t)
	opts := runOptions(models.DepthBasic)
	opts.MaxFileSize = int64(len(pySource))

	res, err := newService().AnalyzeProject(context.Background(), paths, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Basic.TotalFiles)
	assert.Equal(t, 1, res.Errors.Len())
}

func TestAnalyzeProjectCancelled(t *testing.T) {
	_, paths := writeProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService().AnalyzeProject(ctx, paths, runOptions(models.DepthComplete))
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeProjectEmpty(t *testing.T) {
	res, err := newService().AnalyzeProject(context.Background(), nil, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stats.Basic.TotalFiles)
	assert.Empty(t, res.Stats.Metadata.Languages)
}

func TestAnalyzeProjectUsesCache(t *testing.T) {
	_, paths := writeProject(t)
	c, err := cache.New(t.TempDir(), 24, true)
	require.NoError(t, err)
	svc := newService(WithCache(c))
	ctx := context.Background()

	first, err := svc.AnalyzeProject(ctx, paths, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Equal(t, 0, first.Cached)

	second, err := svc.AnalyzeProject(ctx, paths, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Cached)
	assert.Equal(t, first.Stats, second.Stats)

	// A different depth variant is a separate entry.
	basic, err := svc.AnalyzeProject(ctx, paths, runOptions(models.DepthBasic))
	require.NoError(t, err)
	assert.Equal(t, 0, basic.Cached)

	// Changed content misses.
	require.NoError(t, os.WriteFile(paths[0], []byte("x = 1\n"), 0o644))
	third, err := svc.AnalyzeProject(ctx, paths, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Equal(t, 1, third.Cached)
}

func TestCacheSeparatesQualityTargets(t *testing.T) {
	dir, _ := writeProject(t)
	path := filepath.Join(dir, "main.go")
	cacheDir := t.TempDir()
	openCache := func() *cache.Cache {
		c, err := cache.New(cacheDir, 24, true)
		require.NoError(t, err)
		return c
	}
	ctx := context.Background()

	first, err := newService(WithCache(openCache())).AnalyzeFile(ctx, path, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Equal(t, 0, first.Cached)

	cfg := config.DefaultConfig()
	cfg.Quality.GoodDocRatio = 0.5
	strict := newService(WithConfig(cfg), WithCache(openCache()))

	second, err := strict.AnalyzeFile(ctx, path, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Cached, "changed quality targets must miss the cache")
	assert.Less(t,
		second.Stats.Complexity.QualityMetrics.DocumentationCoverage,
		first.Stats.Complexity.QualityMetrics.DocumentationCoverage)

	third, err := strict.AnalyzeFile(ctx, path, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Equal(t, 1, third.Cached)
	assert.Equal(t, second.Stats, third.Stats)
}

func TestAnalyzeFile(t *testing.T) {
	dir, _ := writeProject(t)
	path := filepath.Join(dir, "main.go")
	svc := newService()

	res, err := svc.AnalyzeFile(context.Background(), path, runOptions(models.DepthComplete))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Basic.TotalFiles)
	assert.Equal(t, 6, res.Stats.Basic.TotalLines)
	assert.Equal(t, 1, res.Stats.Complexity.FunctionCount)
	assert.Equal(t, []string{"Go"}, res.Stats.Metadata.Languages)
	assert.Nil(t, res.Stats.Ratios.RatiosByExtension, "file ratios carry no distributions")

	_, err = svc.AnalyzeFile(context.Background(), filepath.Join(dir, "missing.go"), runOptions(models.DepthComplete))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorIs(t, err, models.ErrFileProcessing)
}

func TestCommitDetection(t *testing.T) {
	_, paths := writeProject(t)
	svc := newService()

	opts := runOptions(models.DepthBasic)
	opts.Commit = ""
	opts.Root = t.TempDir()
	res, err := svc.AnalyzeProject(context.Background(), paths, opts)
	require.NoError(t, err)
	assert.Empty(t, res.Stats.Metadata.Commit, "not a repository")
}

func TestMergeMatchesJointAnalysis(t *testing.T) {
	_, paths := writeProject(t)
	svc := newService()
	ctx := context.Background()
	opts := runOptions(models.DepthComplete)

	joint, err := svc.AnalyzeProject(ctx, paths, opts)
	require.NoError(t, err)
	a, err := svc.AnalyzeProject(ctx, paths[:1], opts)
	require.NoError(t, err)
	b, err := svc.AnalyzeProject(ctx, paths[1:], opts)
	require.NoError(t, err)

	merged, err := svc.Merge([]models.AggregatedStats{a.Stats, b.Stats})
	require.NoError(t, err)
	assert.Equal(t, joint.Stats.Basic, merged.Basic)
	assert.Equal(t, joint.Stats.Complexity.FunctionCount, merged.Complexity.FunctionCount)
	assert.InDelta(t, joint.Stats.Ratios.CodeRatio, merged.Ratios.CodeRatio, 1e-9)
	assert.Equal(t, "c0ffee", merged.Metadata.Commit)
	assert.Equal(t, models.DepthComplete, merged.Metadata.Depth)
}

func TestMergeKeepsShallowestDepth(t *testing.T) {
	_, paths := writeProject(t)
	svc := newService()
	ctx := context.Background()

	basic, err := svc.AnalyzeProject(ctx, paths[:1], runOptions(models.DepthBasic))
	require.NoError(t, err)
	full, err := svc.AnalyzeProject(ctx, paths[1:], runOptions(models.DepthComplete))
	require.NoError(t, err)

	merged, err := svc.Merge([]models.AggregatedStats{basic.Stats, full.Stats})
	require.NoError(t, err)
	assert.Equal(t, models.DepthBasic, merged.Metadata.Depth)
	assert.Equal(t, 2, merged.Basic.TotalFiles)
	assert.Equal(t, models.RatioStats{}, merged.Ratios)
	assert.Equal(t, 0, merged.Complexity.FunctionCount)

	_, err = svc.Merge(nil)
	require.ErrorIs(t, err, models.ErrInvalidConfig)
}
