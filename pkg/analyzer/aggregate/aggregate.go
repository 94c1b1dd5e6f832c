// Package aggregate wraps basic, complexity and ratio stats with metadata
// and merges aggregated results from separate analyses.
package aggregate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/panbanda/codestat/pkg/analyzer/complexity"
	"github.com/panbanda/codestat/pkg/analyzer/ratio"
	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
)

// Summary keys.
const (
	KeyTotalFiles        = "total_files"
	KeyTotalLines        = "total_lines"
	KeyCodeLines         = "code_lines"
	KeyFunctionCount     = "function_count"
	KeyAverageComplexity = "average_complexity"
	KeyQualityScore      = "quality_score"
	KeyLanguageCount     = "language_count"
)

// Aggregator stamps and merges AggregatedStats.
type Aggregator struct {
	version    string
	commit     string
	now        func() time.Time
	complexity *complexity.Calculator
	ratios     *ratio.Calculator
}

// Option is a functional option for configuring Aggregator.
type Option func(*Aggregator)

// WithClock sets the time source for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithCommit records the revision the stats were computed at.
func WithCommit(commit string) Option {
	return func(a *Aggregator) {
		a.commit = commit
	}
}

// WithComplexityCalculator sets the calculator used to combine complexity
// stats when merging.
func WithComplexityCalculator(c *complexity.Calculator) Option {
	return func(a *Aggregator) {
		a.complexity = c
	}
}

// WithRatioCalculator sets the calculator used to recompute ratios when
// merging.
func WithRatioCalculator(c *ratio.Calculator) Option {
	return func(a *Aggregator) {
		a.ratios = c
	}
}

// New creates an aggregator stamping results with version.
func New(version string, opts ...Option) *Aggregator {
	a := &Aggregator{
		version: version,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.complexity == nil {
		a.complexity = complexity.New()
	}
	if a.ratios == nil {
		a.ratios = ratio.New()
	}
	return a
}

// AggregateFileStats wraps the stats of a single file.
func (a *Aggregator) AggregateFileStats(path string, fs models.FileStats, cx models.ComplexityStats, r models.RatioStats) models.AggregatedStats {
	basic := models.NewCodeStats()
	basic.AddFile(strings.ToLower(filepath.Ext(path)), fs)
	return a.AggregateProjectStats(basic, cx, r)
}

// AggregateProjectStats wraps project stats with fresh metadata at
// DepthComplete.
func (a *Aggregator) AggregateProjectStats(code models.CodeStats, cx models.ComplexityStats, r models.RatioStats) models.AggregatedStats {
	return models.AggregatedStats{
		Basic:      code,
		Complexity: cx,
		Ratios:     r,
		Metadata: models.StatsMetadata{
			ToolVersion:   a.version,
			Timestamp:     a.now().UTC(),
			FilesAnalyzed: code.TotalFiles,
			BytesAnalyzed: code.TotalSize,
			Languages:     Languages(code),
			Depth:         models.DepthComplete,
			Commit:        a.commit,
		},
	}
}

// Merge combines results from separate analyses. Line counts are summed,
// complexity is combined, and ratios are recomputed from the merged line
// counts. A single result is returned unchanged; an empty list is an
// error.
func (a *Aggregator) Merge(list []models.AggregatedStats) (models.AggregatedStats, error) {
	switch len(list) {
	case 0:
		return models.AggregatedStats{}, fmt.Errorf("%w: merge needs at least one result", models.ErrInvalidConfig)
	case 1:
		return list[0], nil
	}

	basic := models.NewCodeStats()
	cx := make([]models.ComplexityStats, len(list))
	for i, s := range list {
		basic = basic.Merge(s.Basic)
		cx[i] = s.Complexity
	}

	return models.AggregatedStats{
		Basic:      basic,
		Complexity: a.complexity.Combine(cx...),
		Ratios:     a.ratios.CalculateProject(basic),
		Metadata:   a.mergeMetadata(list),
	}, nil
}

func (a *Aggregator) mergeMetadata(list []models.AggregatedStats) models.StatsMetadata {
	first := list[0].Metadata
	meta := models.StatsMetadata{
		ToolVersion: a.version,
		Timestamp:   first.Timestamp,
		Depth:       first.Depth,
		Commit:      first.Commit,
	}
	languages := make(map[string]struct{})
	for _, s := range list {
		m := s.Metadata
		meta.CalculationTimeMs += m.CalculationTimeMs
		meta.FilesAnalyzed += m.FilesAnalyzed
		meta.BytesAnalyzed += m.BytesAnalyzed
		if m.Timestamp.After(meta.Timestamp) {
			meta.Timestamp = m.Timestamp
		}
		if m.Depth < meta.Depth {
			meta.Depth = m.Depth
		}
		for _, l := range m.Languages {
			languages[l] = struct{}{}
		}
	}
	if !allCommitsEqual(list) {
		meta.Commit = ""
	}
	meta.Languages = sortedKeys(languages)
	return meta
}

func allCommitsEqual(list []models.AggregatedStats) bool {
	for _, s := range list[1:] {
		if s.Metadata.Commit != list[0].Metadata.Commit {
			return false
		}
	}
	return true
}

// Languages returns the sorted language names of the extensions in code.
// Unknown extensions are listed as-is.
func Languages(code models.CodeStats) []string {
	set := make(map[string]struct{}, len(code.StatsByExtension))
	for ext := range code.StatsByExtension {
		if name := lang.NameForExtension(ext); name != "" {
			set[name] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Summary returns the quick-display view of s.
func Summary(s models.AggregatedStats) map[string]any {
	return map[string]any{
		KeyTotalFiles:        s.Basic.TotalFiles,
		KeyTotalLines:        s.Basic.TotalLines,
		KeyCodeLines:         s.Basic.CodeLines,
		KeyFunctionCount:     s.Complexity.FunctionCount,
		KeyAverageComplexity: s.Complexity.CyclomaticComplexity,
		KeyQualityScore:      s.Ratios.QualityMetrics.OverallQualityScore,
		KeyLanguageCount:     len(s.Metadata.Languages),
	}
}

// WithDepth returns s with its metadata depth set to d.
func WithDepth(s models.AggregatedStats, d models.AnalysisDepth) models.AggregatedStats {
	s.Metadata.Depth = d
	return s
}
