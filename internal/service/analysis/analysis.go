// Package analysis runs the full statistics pipeline over a set of files:
// read, classify, analyze structure, reduce and aggregate.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/panbanda/codestat/internal/cache"
	"github.com/panbanda/codestat/internal/fileproc"
	"github.com/panbanda/codestat/internal/vcs"
	"github.com/panbanda/codestat/pkg/analyzer/aggregate"
	"github.com/panbanda/codestat/pkg/analyzer/complexity"
	"github.com/panbanda/codestat/pkg/analyzer/ratio"
	"github.com/panbanda/codestat/pkg/config"
	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
	"github.com/panbanda/codestat/pkg/source"
)

// Service orchestrates code analysis operations.
type Service struct {
	config  *config.Config
	cache   *cache.Cache
	source  source.ContentSource
	opener  vcs.Opener
	logger  *slog.Logger
	version string
	now     func() time.Time

	complexity *complexity.Calculator
	ratios     *ratio.Calculator
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache enables the per-file result cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithSource sets where file content is read from.
func WithSource(src source.ContentSource) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithOpener sets the VCS opener used to describe the analyzed commit.
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithVersion sets the tool version stamped into results.
func WithVersion(v string) Option {
	return func(s *Service) {
		s.version = v
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a new analysis service. Without WithConfig the defaults are
// used; without WithCache nothing is cached.
func New(opts ...Option) *Service {
	s := &Service{
		config:  config.DefaultConfig(),
		source:  source.NewFilesystem(),
		opener:  vcs.DefaultOpener(),
		logger:  slog.Default(),
		version: "dev",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.ratios = ratio.New(
		ratio.WithThresholds(s.config.Quality),
		ratio.WithWeights(s.config.Weights),
	)
	s.complexity = complexity.New(
		complexity.WithThresholds(s.config.Thresholds),
		complexity.WithQualityThresholds(s.config.Quality),
		complexity.WithWorkers(s.config.Analysis.Workers),
	)
	return s
}

// Options control one analysis run.
type Options struct {
	Depth       models.AnalysisDepth
	Workers     int
	MaxFileSize int64
	// Root is the directory whose git HEAD is recorded when Commit is empty.
	Root string
	// Commit, when set, is recorded as is.
	Commit string
}

// Options returns the run options the configuration describes.
func (s *Service) Options() Options {
	depth, err := s.config.Depth()
	if err != nil {
		depth = models.DepthComplete
	}
	return Options{
		Depth:       depth,
		Workers:     s.config.Analysis.Workers,
		MaxFileSize: s.config.Analysis.MaxFileSize,
	}
}

// Result is the outcome of an analysis run.
type Result struct {
	Stats models.AggregatedStats
	// Errors lists the files that were skipped; nil when every file was read.
	Errors *fileproc.ProcessingErrors
	// Cached counts files served from the cache.
	Cached int
}

// fileResult is the cacheable per-file outcome.
type fileResult struct {
	Path       string                 `json:"-"`
	Stats      models.FileStats       `json:"stats"`
	Complexity models.ComplexityStats `json:"complexity"`
}

// AnalyzeProject analyzes files and aggregates the results. Files that
// cannot be read are skipped and reported in Result.Errors. Cancelling ctx
// aborts the run with the context error.
func (s *Service) AnalyzeProject(ctx context.Context, files []string, opts Options) (*Result, error) {
	start := s.now()
	perFile, errs, cached := s.analyzeFiles(ctx, files, opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code := models.NewCodeStats()
	cxs := make([]models.ComplexityStats, 0, len(perFile))
	for _, fr := range perFile {
		code.AddFile(extension(fr.Path), fr.Stats)
		cxs = append(cxs, fr.Complexity)
	}

	var cx models.ComplexityStats
	var r models.RatioStats
	if opts.Depth >= models.DepthStandard {
		r = s.ratios.CalculateProject(code)
	}
	if opts.Depth >= models.DepthAdvanced {
		cx = s.complexity.Project(code, cxs...)
	}

	stats := s.aggregator(s.commit(opts)).AggregateProjectStats(code, cx, r)
	stats = finish(stats, opts.Depth, start, s.now())
	return &Result{Stats: stats, Errors: errs, Cached: cached}, nil
}

// AnalyzeFile analyzes a single file. Unlike AnalyzeProject a read failure
// is returned as the error.
func (s *Service) AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	start := s.now()
	perFile, errs, cached := s.analyzeFiles(ctx, []string{path}, opts)
	if errs.HasErrors() {
		return nil, errs.Errors[0]
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fr := perFile[0]

	var r models.RatioStats
	if opts.Depth >= models.DepthStandard {
		r = s.ratios.CalculateFile(fr.Stats)
	}
	stats := s.aggregator(s.commit(opts)).AggregateFileStats(path, fr.Stats, fr.Complexity, r)
	stats = finish(stats, opts.Depth, start, s.now())
	return &Result{Stats: stats, Cached: cached}, nil
}

func (s *Service) analyzeFiles(ctx context.Context, files []string, opts Options) ([]fileResult, *fileproc.ProcessingErrors, int) {
	withComplexity := opts.Depth >= models.DepthAdvanced
	variant := s.cacheVariant(withComplexity)

	var cached atomic.Int64
	results, errs := fileproc.MapSourceFiles(ctx, files, s.source,
		fileproc.Options{Workers: opts.Workers, MaxFileSize: opts.MaxFileSize},
		func(path string, content []byte) (fileResult, error) {
			key := cache.Key(path, variant)
			hash := cache.HashBytes(content)

			var fr fileResult
			if s.cache.Load(key, hash, &fr) {
				cached.Add(1)
				fr.Path = path
				return fr, nil
			}

			fr = s.analyzeContent(path, content, withComplexity)
			if err := s.cache.Store(key, hash, fr); err != nil {
				s.logger.Debug("cache store failed", "path", path, "error", err)
			}
			return fr, nil
		})

	if errs.HasErrors() {
		for _, e := range errs.Errors {
			s.logger.Warn("skipping file", "path", e.Path, "error", e.Err)
		}
	}
	s.logger.Debug("files analyzed", "files", len(results), "cached", cached.Load(), "skipped", errs.Len())
	return results, errs, int(cached.Load())
}

func (s *Service) analyzeContent(path string, content []byte, withComplexity bool) fileResult {
	l, _ := lang.ForPath(path)
	fr := fileResult{Path: path, Stats: lang.Classify(content, l)}
	if withComplexity {
		fr.Complexity = s.complexity.CalculateFileStats(path, fr.Stats, lang.SplitLines(string(content)))
	}
	return fr
}

// cacheVariant distinguishes cache entries computed with different settings.
func (s *Service) cacheVariant(withComplexity bool) string {
	if !withComplexity {
		return s.version + "/lines"
	}
	t, q := s.complexity.Thresholds(), s.complexity.QualityThresholds()
	return fmt.Sprintf("%s/complexity/%d-%d-%d-%d/%g-%g-%g-%g-%g", s.version,
		t.MaxCyclomatic, t.MaxNesting, t.MaxParameters, t.MaxFunctionLength,
		q.GoodCommentRatio, q.GoodDocRatio, q.MaxBlankRatio, q.IdealCommentToCode, q.IdealDocToCode)
}

func (s *Service) aggregator(commit string) *aggregate.Aggregator {
	return aggregate.New(s.version,
		aggregate.WithClock(s.now),
		aggregate.WithCommit(commit),
		aggregate.WithComplexityCalculator(s.complexity),
		aggregate.WithRatioCalculator(s.ratios),
	)
}

func (s *Service) commit(opts Options) string {
	if opts.Commit != "" || opts.Root == "" {
		return opts.Commit
	}
	return vcs.DescribeWith(s.opener, opts.Root)
}

// Merge combines saved results with the configured calculators. Sections
// the shallowest input did not produce are left empty.
func (s *Service) Merge(list []models.AggregatedStats) (models.AggregatedStats, error) {
	merged, err := s.aggregator("").Merge(list)
	if err != nil {
		return merged, err
	}
	return gate(merged, merged.Metadata.Depth), nil
}

// finish records the executed depth and elapsed time.
func finish(stats models.AggregatedStats, depth models.AnalysisDepth, start, end time.Time) models.AggregatedStats {
	stats = gate(aggregate.WithDepth(stats, depth), depth)
	stats.Metadata.CalculationTimeMs = end.Sub(start).Milliseconds()
	return stats
}

// gate clears the sections depth does not include.
func gate(stats models.AggregatedStats, depth models.AnalysisDepth) models.AggregatedStats {
	if depth < models.DepthStandard {
		stats.Ratios = models.RatioStats{}
	}
	if depth < models.DepthAdvanced {
		stats.Complexity = models.ComplexityStats{}
	}
	if depth < models.DepthComplete {
		stats.Complexity.QualityMetrics = models.QualityMetrics{}
		stats.Ratios.QualityMetrics = models.RatioQuality{}
	}
	return stats
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
