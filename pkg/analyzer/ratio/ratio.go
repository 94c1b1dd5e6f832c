// Package ratio derives line ratios and ratio-based quality scores from
// FileStats and CodeStats.
package ratio

import (
	"github.com/panbanda/codestat/pkg/models"
	"github.com/panbanda/codestat/pkg/stats"
)

// Calculator computes RatioStats. It holds no mutable state and is safe
// for concurrent use.
type Calculator struct {
	thresholds QualityThresholds
	weights    Weights
}

// Option is a functional option for configuring Calculator.
type Option func(*Calculator)

// WithThresholds sets the quality targets.
func WithThresholds(t QualityThresholds) Option {
	return func(c *Calculator) {
		c.thresholds = t
	}
}

// WithWeights sets the overall score weights. Callers validate them with
// Weights.Validate.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		c.weights = w
	}
}

// New creates a ratio calculator with default thresholds and weights.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		thresholds: DefaultQualityThresholds(),
		weights:    DefaultWeights(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Thresholds returns the configured targets.
func (c *Calculator) Thresholds() QualityThresholds { return c.thresholds }

// Weights returns the configured weights.
func (c *Calculator) Weights() Weights { return c.weights }

// Ratios returns the six line ratios of fs. Every ratio is 0 when its
// denominator is 0.
func Ratios(fs models.FileStats) models.ExtensionRatios {
	total := float64(fs.TotalLines)
	code := float64(fs.CodeLines)
	return models.ExtensionRatios{
		CodeRatio:          stats.SafeDiv(code, total),
		CommentRatio:       stats.SafeDiv(float64(fs.CommentLines), total),
		DocRatio:           stats.SafeDiv(float64(fs.DocLines), total),
		BlankRatio:         stats.SafeDiv(float64(fs.BlankLines), total),
		CommentToCodeRatio: stats.SafeDiv(float64(fs.CommentLines), code),
		DocToCodeRatio:     stats.SafeDiv(float64(fs.DocLines), code),
	}
}

// CalculateFile computes the ratios of a single file. A file has no
// per-extension breakdown, and its consistency score is 100.
func (c *Calculator) CalculateFile(fs models.FileStats) models.RatioStats {
	out := fromRatios(Ratios(fs))
	if fs.TotalLines > 0 {
		out.QualityMetrics = c.quality(Ratios(fs), 100)
	}
	return out
}

// CalculateProject computes ratios, per-extension breakdowns and
// distributions for a project.
func (c *Calculator) CalculateProject(code models.CodeStats) models.RatioStats {
	top := Ratios(code.Totals())
	out := fromRatios(top)

	exts := code.Extensions()
	out.RatiosByExtension = make(map[string]models.ExtensionRatios, len(exts))
	out.LanguageDistribution = make(map[string]float64, len(exts))
	out.FileDistribution = make(map[string]float64, len(exts))
	out.SizeDistribution = make(map[string]float64, len(exts))

	codeRatios := make([]float64, 0, len(exts))
	lineWeights := make([]float64, 0, len(exts))
	for _, ext := range exts {
		es := code.StatsByExtension[ext]
		r := Ratios(es.Stats)
		out.RatiosByExtension[ext] = r
		out.LanguageDistribution[ext] = percent(float64(es.Stats.TotalLines), float64(code.TotalLines))
		out.FileDistribution[ext] = percent(float64(es.FileCount), float64(code.TotalFiles))
		out.SizeDistribution[ext] = percent(float64(es.Stats.FileSize), float64(code.TotalSize))

		codeRatios = append(codeRatios, r.CodeRatio)
		lineWeights = append(lineWeights, float64(es.Stats.TotalLines))
	}

	if code.TotalLines > 0 {
		out.QualityMetrics = c.quality(top, Consistency(codeRatios, lineWeights))
	}
	return out
}

// DocumentationScore is the mean of the comment and doc ratio scores.
func (c *Calculator) DocumentationScore(commentRatio, docRatio float64) float64 {
	return (AtLeast(commentRatio, c.thresholds.GoodCommentRatio) +
		AtLeast(docRatio, c.thresholds.GoodDocRatio)) / 2
}

// Consistency scores how uniform the code ratio is across extensions:
// 100 * (1 - 2*sd) with sd the line-weighted standard deviation. Fewer than
// two extensions score 100.
func Consistency(codeRatios, weights []float64) float64 {
	if len(codeRatios) < 2 {
		return 100
	}
	sd := stats.WeightedStdDev(codeRatios, weights)
	return stats.Clamp(100*(1-2*sd), 0, 100)
}

func (c *Calculator) quality(r models.ExtensionRatios, consistency float64) models.RatioQuality {
	t := c.thresholds
	maintainability := (Ideal(r.CommentToCodeRatio, t.IdealCommentToCode) +
		Ideal(r.DocToCodeRatio, t.IdealDocToCode)) / 2
	q := models.RatioQuality{
		DocumentationScore:   c.DocumentationScore(r.CommentRatio, r.DocRatio),
		MaintainabilityScore: maintainability,
		ReadabilityScore:     AtMost(r.BlankRatio, t.MaxBlankRatio),
		ConsistencyScore:     consistency,
	}
	w := c.weights
	q.OverallQualityScore = stats.Clamp(
		w.Documentation*q.DocumentationScore+
			w.Maintainability*q.MaintainabilityScore+
			w.Readability*q.ReadabilityScore+
			w.Consistency*q.ConsistencyScore,
		0, 100)
	return q
}

func fromRatios(r models.ExtensionRatios) models.RatioStats {
	return models.RatioStats{
		CodeRatio:          r.CodeRatio,
		CommentRatio:       r.CommentRatio,
		DocRatio:           r.DocRatio,
		BlankRatio:         r.BlankRatio,
		CommentToCodeRatio: r.CommentToCodeRatio,
		DocToCodeRatio:     r.DocToCodeRatio,
	}
}

func percent(part, whole float64) float64 {
	return 100 * stats.SafeDiv(part, whole)
}
