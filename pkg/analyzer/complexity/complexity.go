// Package complexity turns the functions and structures detected by
// pkg/structure into ComplexityStats, and combines file-level stats into
// project-level stats.
package complexity

import (
	"cmp"
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/panbanda/codestat/internal/fileproc"
	"github.com/panbanda/codestat/internal/progress"
	"github.com/panbanda/codestat/pkg/analyzer/ratio"
	"github.com/panbanda/codestat/pkg/models"
	"github.com/panbanda/codestat/pkg/stats"
	"github.com/panbanda/codestat/pkg/structure"
)

// Calculator computes ComplexityStats. It is read-only after New and safe
// for concurrent use.
type Calculator struct {
	registry   *structure.Registry
	thresholds Thresholds
	ratios     *ratio.Calculator
	workers    int
}

// Option is a functional option for configuring Calculator.
type Option func(*Calculator)

// WithRegistry sets the structural analyzer registry.
func WithRegistry(r *structure.Registry) Option {
	return func(c *Calculator) {
		c.registry = r
	}
}

// WithThresholds sets the maintainability concern limits.
func WithThresholds(t Thresholds) Option {
	return func(c *Calculator) {
		c.thresholds = t
	}
}

// WithQualityThresholds sets the targets used for documentation coverage.
func WithQualityThresholds(q ratio.QualityThresholds) Option {
	return func(c *Calculator) {
		c.ratios = ratio.New(ratio.WithThresholds(q))
	}
}

// WithWorkers bounds CalculateProjectStats concurrency (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(c *Calculator) {
		c.workers = n
	}
}

// New creates a complexity calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		thresholds: DefaultThresholds(),
		ratios:     ratio.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = structure.NewRegistry()
	}
	return c
}

// Thresholds returns the configured concern limits.
func (c *Calculator) Thresholds() Thresholds { return c.thresholds }

// QualityThresholds returns the targets behind documentation coverage.
func (c *Calculator) QualityThresholds() ratio.QualityThresholds { return c.ratios.Thresholds() }

// Supports reports whether path has a structural analyzer.
func (c *Calculator) Supports(path string) bool {
	_, ok := c.registry.ForPath(path)
	return ok
}

// CalculateFileStats analyzes the lines of one file. Files without an
// analyzer yield zero counts; their line totals are still recorded.
func (c *Calculator) CalculateFileStats(path string, fs models.FileStats, lines []string) models.ComplexityStats {
	out := models.ComplexityStats{
		TotalLines:     fs.TotalLines,
		CommentedLines: fs.CommentedLines(),
		DocLines:       fs.DocLines,
	}

	a, ok := c.registry.ForPath(path)
	if !ok {
		return c.derive(out)
	}

	fns, structs := structure.Analyze(a, lines)
	for _, fn := range fns {
		c.addFunction(&out, path, fn)
	}
	for _, s := range structs {
		out.StructureCount++
		out.MethodCount += len(s.Methods)
		out.StructureDistribution.Add(s.StructureType)
	}
	sortDetails(out.FunctionComplexityDetails)
	out = c.derive(out)

	ext := strings.ToLower(filepath.Ext(path))
	out.ComplexityByExtension = map[string]models.ComplexityStats{ext: c.extensionView(out)}
	return out
}

func (c *Calculator) addFunction(out *models.ComplexityStats, path string, fn models.FunctionInfo) {
	if out.FunctionCount == 0 || fn.LineCount < out.MinFunctionLength {
		out.MinFunctionLength = fn.LineCount
	}
	out.FunctionCount++
	out.TotalCyclomatic += fn.CyclomaticComplexity
	out.TotalCognitive += fn.CognitiveComplexity
	out.TotalFunctionLines += fn.LineCount
	out.TotalNesting += fn.NestingDepth
	out.TotalParameters += fn.ParameterCount
	out.MaxCyclomatic = max(out.MaxCyclomatic, fn.CyclomaticComplexity)
	out.MaxCognitive = max(out.MaxCognitive, fn.CognitiveComplexity)
	out.MaxFunctionLength = max(out.MaxFunctionLength, fn.LineCount)
	out.MaxNestingDepth = max(out.MaxNestingDepth, fn.NestingDepth)
	out.MaxParameterCount = max(out.MaxParameterCount, fn.ParameterCount)

	level := models.LevelFor(fn.CyclomaticComplexity)
	out.ComplexityDistribution.Add(level)
	out.FunctionComplexityDetails = append(out.FunctionComplexityDetails, models.FunctionComplexityDetail{
		File:                    path,
		Name:                    fn.Name,
		StartLine:               fn.StartLine,
		EndLine:                 fn.EndLine,
		LineCount:               fn.LineCount,
		CyclomaticComplexity:    fn.CyclomaticComplexity,
		CognitiveComplexity:     fn.CognitiveComplexity,
		NestingDepth:            fn.NestingDepth,
		ParameterCount:          fn.ParameterCount,
		Level:                   level,
		MaintainabilityConcerns: c.thresholds.Concerns(fn),
	})
}

// Combine merges stats by summing raw totals, counts and distributions,
// taking maxima and minima, uniting the per-extension maps and
// concatenating details in canonical order. Every derived scalar is then
// recomputed, so means are weighted by function count. Combine is
// associative and commutative.
func (c *Calculator) Combine(all ...models.ComplexityStats) models.ComplexityStats {
	var out models.ComplexityStats
	var byExt map[string][]models.ComplexityStats

	for _, s := range all {
		if s.FunctionCount > 0 && (out.FunctionCount == 0 || s.MinFunctionLength < out.MinFunctionLength) {
			out.MinFunctionLength = s.MinFunctionLength
		}
		out.FunctionCount += s.FunctionCount
		out.StructureCount += s.StructureCount
		out.MethodCount += s.MethodCount
		out.TotalCyclomatic += s.TotalCyclomatic
		out.TotalCognitive += s.TotalCognitive
		out.TotalFunctionLines += s.TotalFunctionLines
		out.TotalNesting += s.TotalNesting
		out.TotalParameters += s.TotalParameters
		out.TotalLines += s.TotalLines
		out.CommentedLines += s.CommentedLines
		out.DocLines += s.DocLines
		out.MaxCyclomatic = max(out.MaxCyclomatic, s.MaxCyclomatic)
		out.MaxCognitive = max(out.MaxCognitive, s.MaxCognitive)
		out.MaxFunctionLength = max(out.MaxFunctionLength, s.MaxFunctionLength)
		out.MaxNestingDepth = max(out.MaxNestingDepth, s.MaxNestingDepth)
		out.MaxParameterCount = max(out.MaxParameterCount, s.MaxParameterCount)
		out.ComplexityDistribution = out.ComplexityDistribution.Merge(s.ComplexityDistribution)
		out.StructureDistribution = out.StructureDistribution.Merge(s.StructureDistribution)
		out.FunctionComplexityDetails = append(out.FunctionComplexityDetails, s.FunctionComplexityDetails...)

		for ext, es := range s.ComplexityByExtension {
			if byExt == nil {
				byExt = make(map[string][]models.ComplexityStats)
			}
			byExt[ext] = append(byExt[ext], es)
		}
	}

	sortDetails(out.FunctionComplexityDetails)
	if byExt != nil {
		out.ComplexityByExtension = make(map[string]models.ComplexityStats, len(byExt))
		for ext, group := range byExt {
			out.ComplexityByExtension[ext] = c.Combine(group...)
		}
	}
	return c.derive(out)
}

// CalculateProjectStats analyzes every file on a worker pool and combines
// the results with Project.
// Progress is reported to the reporter carried by ctx, if any.
func (c *Calculator) CalculateProjectStats(ctx context.Context, code models.CodeStats, files []FileInput) models.ComplexityStats {
	reporter := progress.FromContext(ctx)
	if reporter != nil {
		reporter.Add(len(files))
	}

	perFile := fileproc.MapIndexed(files, c.workers, func(f FileInput) models.ComplexityStats {
		if reporter != nil {
			defer reporter.Tick(f.Path)
		}
		return c.CalculateFileStats(f.Path, f.Stats, f.Lines)
	})

	return c.Project(code, perFile...)
}

// Project combines per-file stats into project stats. When code describes
// at least one file its line totals replace the per-file sums.
func (c *Calculator) Project(code models.CodeStats, perFile ...models.ComplexityStats) models.ComplexityStats {
	out := c.Combine(perFile...)
	if code.TotalFiles > 0 {
		out.TotalLines = code.TotalLines
		out.CommentedLines = code.CommentLines + code.DocLines
		out.DocLines = code.DocLines
		out = c.derive(out)
	}
	return out
}

// derive recomputes every derived scalar from the raw totals.
func (c *Calculator) derive(s models.ComplexityStats) models.ComplexityStats {
	n := float64(s.FunctionCount)
	s.CyclomaticComplexity = stats.SafeDiv(float64(s.TotalCyclomatic), n)
	s.CognitiveComplexity = stats.SafeDiv(float64(s.TotalCognitive), n)
	s.AverageFunctionLength = stats.SafeDiv(float64(s.TotalFunctionLines), n)
	s.AverageNestingDepth = stats.SafeDiv(float64(s.TotalNesting), n)
	s.AverageParameterCount = stats.SafeDiv(float64(s.TotalParameters), n)
	s.MethodsPerClass = stats.SafeDiv(float64(s.MethodCount), float64(s.StructureCount))
	if s.FunctionCount == 0 {
		s.MinFunctionLength = 0
	}

	s.P50Cyclomatic, s.P90Cyclomatic = 0, 0
	if len(s.FunctionComplexityDetails) > 0 {
		values := make([]int, len(s.FunctionComplexityDetails))
		for i, d := range s.FunctionComplexityDetails {
			values[i] = d.CyclomaticComplexity
		}
		s.P50Cyclomatic = stats.PercentileOfInts(values, 50)
		s.P90Cyclomatic = stats.PercentileOfInts(values, 90)
	}

	total := float64(s.TotalLines)
	density := stats.SafeDiv(float64(s.CommentedLines), total)
	s.MaintainabilityIndex = MaintainabilityIndex(s.CyclomaticComplexity, s.AverageFunctionLength, density)

	d := s.ComplexityDistribution
	s.QualityMetrics = models.QualityMetrics{
		CodeHealthScore:    CodeHealth(s.CyclomaticComplexity),
		FunctionSizeHealth: FunctionSizeHealth(s.AverageFunctionLength),
		NestingDepthHealth: NestingHealth(s.AverageNestingDepth),
		DocumentationCoverage: c.ratios.DocumentationScore(
			stats.SafeDiv(float64(s.CommentedLines-s.DocLines), total),
			stats.SafeDiv(float64(s.DocLines), total),
		),
		TechnicalDebtRatio:   stats.SafeDiv(0.25*float64(d.Medium)+0.6*float64(d.High)+float64(d.VeryHigh), n),
		CodeDuplicationRatio: stats.SafeDiv(0.5*float64(d.High+d.VeryHigh), n),
	}
	return s
}

// extensionView is s without details or per-extension breakdown.
func (c *Calculator) extensionView(s models.ComplexityStats) models.ComplexityStats {
	s.FunctionComplexityDetails = nil
	s.ComplexityByExtension = nil
	return c.derive(s)
}

// sortDetails orders details by file, start line, name and end line, then
// by the remaining metrics so that details sharing a location (the same file
// analyzed at two commits) order the same regardless of input order.
func sortDetails(details []models.FunctionComplexityDetail) {
	sort.Slice(details, func(i, j int) bool {
		return compareDetails(details[i], details[j]) < 0
	})
}

func compareDetails(a, b models.FunctionComplexityDetail) int {
	if c := cmp.Compare(a.File, b.File); c != 0 {
		return c
	}
	if c := cmp.Compare(a.StartLine, b.StartLine); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	for _, p := range [][2]int{
		{a.EndLine, b.EndLine},
		{a.CyclomaticComplexity, b.CyclomaticComplexity},
		{a.CognitiveComplexity, b.CognitiveComplexity},
		{a.NestingDepth, b.NestingDepth},
		{a.ParameterCount, b.ParameterCount},
		{a.LineCount, b.LineCount},
		{int(a.Level), int(b.Level)},
	} {
		if c := cmp.Compare(p[0], p[1]); c != 0 {
			return c
		}
	}
	return cmp.Compare(strings.Join(a.MaintainabilityConcerns, ","), strings.Join(b.MaintainabilityConcerns, ","))
}
