package output

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter/tw"

	"github.com/panbanda/codestat/pkg/analyzer/aggregate"
	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
)

// DefaultTopFunctions is how many functions the hotspot table lists.
const DefaultTopFunctions = 10

// StatsOption configures NewStatsReport.
type StatsOption func(*statsReport)

type statsReport struct {
	title string
	top   int
}

// WithTitle overrides the report title.
func WithTitle(title string) StatsOption {
	return func(r *statsReport) {
		r.title = title
	}
}

// WithTopFunctions sets the hotspot table size. Zero hides the table.
func WithTopFunctions(n int) StatsOption {
	return func(r *statsReport) {
		r.top = max(n, 0)
	}
}

// NewStatsReport builds the Renderable view of an analysis. Structured formats
// encode s itself; text and markdown show the sections its depth produced.
func NewStatsReport(s models.AggregatedStats, opts ...StatsOption) *Report {
	cfg := statsReport{title: "Code Statistics", top: DefaultTopFunctions}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Report{Title: cfg.title, Data: s}
	r.Sections = append(r.Sections, overviewSection(s), languageTable(s.Basic))

	depth := s.Metadata.Depth
	if depth >= models.DepthStandard {
		r.Sections = append(r.Sections, ratioSection(s.Ratios))
	}
	if depth >= models.DepthAdvanced {
		r.Sections = append(r.Sections, complexitySection(s.Complexity), distributionTable(s.Complexity))
		if cfg.top > 0 && len(s.Complexity.FunctionComplexityDetails) > 0 {
			r.Sections = append(r.Sections, hotspotTable(s.Complexity, cfg.top))
		}
	}
	if depth >= models.DepthComplete {
		r.Sections = append(r.Sections, healthSection(s.Complexity.QualityMetrics))
	}
	return r
}

// NewSummarySection renders the summary map in a fixed key order.
func NewSummarySection(summary map[string]any) *Section {
	keys := []struct{ key, label string }{
		{aggregate.KeyTotalFiles, "Files"},
		{aggregate.KeyTotalLines, "Lines"},
		{aggregate.KeyCodeLines, "Code lines"},
		{aggregate.KeyFunctionCount, "Functions"},
		{aggregate.KeyAverageComplexity, "Avg complexity"},
		{aggregate.KeyQualityScore, "Quality score"},
		{aggregate.KeyLanguageCount, "Languages"},
	}
	s := &Section{Title: "Summary", Data: summary}
	for _, k := range keys {
		v, ok := summary[k.key]
		if !ok {
			continue
		}
		f := Field{Label: k.label, Value: formatAny(v)}
		if k.key == aggregate.KeyQualityScore {
			if score, ok := v.(float64); ok {
				f.Score = &score
			}
		}
		s.Fields = append(s.Fields, f)
	}
	return s
}

func overviewSection(s models.AggregatedStats) *Section {
	md := s.Metadata
	fields := []Field{
		{Label: "Files", Value: strconv.Itoa(s.Basic.TotalFiles)},
		{Label: "Lines", Value: strconv.Itoa(s.Basic.TotalLines)},
		{Label: "Size", Value: formatBytes(s.Basic.TotalSize)},
		{Label: "Languages", Value: strconv.Itoa(len(md.Languages))},
		{Label: "Depth", Value: md.Depth.String()},
		{Label: "Time", Value: fmt.Sprintf("%dms", md.CalculationTimeMs)},
	}
	if md.Commit != "" {
		fields = append(fields, Field{Label: "Commit", Value: md.Commit})
	}
	if md.ToolVersion != "" {
		fields = append(fields, Field{Label: "Version", Value: md.ToolVersion})
	}
	return &Section{Title: "Overview", Fields: fields}
}

func languageTable(code models.CodeStats) *Table {
	align := []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight}
	t := &Table{
		Title:   "Languages",
		Headers: []string{"Extension", "Language", "Files", "Lines", "Code", "Comment", "Doc", "Blank", "Code %"},
		Align:   align,
	}

	exts := code.Extensions()
	slices.SortStableFunc(exts, func(a, b string) int {
		return cmp.Compare(code.StatsByExtension[b].Stats.TotalLines, code.StatsByExtension[a].Stats.TotalLines)
	})
	for _, ext := range exts {
		es := code.StatsByExtension[ext]
		t.Rows = append(t.Rows, []string{
			ext,
			lang.NameForExtension(ext),
			strconv.Itoa(es.FileCount),
			strconv.Itoa(es.Stats.TotalLines),
			strconv.Itoa(es.Stats.CodeLines),
			strconv.Itoa(es.Stats.CommentLines),
			strconv.Itoa(es.Stats.DocLines),
			strconv.Itoa(es.Stats.BlankLines),
			percent(es.Stats.CodeLines, es.Stats.TotalLines),
		})
	}
	t.Footer = []string{
		"Total", "",
		strconv.Itoa(code.TotalFiles),
		strconv.Itoa(code.TotalLines),
		strconv.Itoa(code.CodeLines),
		strconv.Itoa(code.CommentLines),
		strconv.Itoa(code.DocLines),
		strconv.Itoa(code.BlankLines),
		percent(code.CodeLines, code.TotalLines),
	}
	return t
}

func ratioSection(r models.RatioStats) *Section {
	q := r.QualityMetrics
	return &Section{
		Title: "Ratios",
		Fields: []Field{
			{Label: "Code", Value: fraction(r.CodeRatio)},
			{Label: "Comment", Value: fraction(r.CommentRatio)},
			{Label: "Doc", Value: fraction(r.DocRatio)},
			{Label: "Blank", Value: fraction(r.BlankRatio)},
			{Label: "Comment/code", Value: fmt.Sprintf("%.2f", r.CommentToCodeRatio)},
			{Label: "Doc/code", Value: fmt.Sprintf("%.2f", r.DocToCodeRatio)},
			scoreField("Documentation", q.DocumentationScore),
			scoreField("Maintainability", q.MaintainabilityScore),
			scoreField("Readability", q.ReadabilityScore),
			scoreField("Consistency", q.ConsistencyScore),
			scoreField("Overall quality", q.OverallQualityScore),
		},
	}
}

func complexitySection(c models.ComplexityStats) *Section {
	return &Section{
		Title: "Complexity",
		Fields: []Field{
			{Label: "Functions", Value: strconv.Itoa(c.FunctionCount)},
			{Label: "Structures", Value: strconv.Itoa(c.StructureCount)},
			{Label: "Methods", Value: strconv.Itoa(c.MethodCount)},
			{Label: "Avg cyclomatic", Value: fmt.Sprintf("%.2f", c.CyclomaticComplexity)},
			{Label: "Avg cognitive", Value: fmt.Sprintf("%.2f", c.CognitiveComplexity)},
			{Label: "P50 / P90 cyclomatic", Value: fmt.Sprintf("%.1f / %.1f", c.P50Cyclomatic, c.P90Cyclomatic)},
			{Label: "Max cyclomatic", Value: strconv.Itoa(c.MaxCyclomatic)},
			{Label: "Avg function length", Value: fmt.Sprintf("%.1f", c.AverageFunctionLength)},
			{Label: "Max nesting", Value: strconv.Itoa(c.MaxNestingDepth)},
			scoreField("Maintainability index", c.MaintainabilityIndex),
		},
	}
}

func distributionTable(c models.ComplexityStats) *Table {
	d := c.ComplexityDistribution
	n := d.Total()
	rows := [][]string{
		{"very low (1-5)", strconv.Itoa(d.VeryLow), percent(d.VeryLow, n)},
		{"low (6-10)", strconv.Itoa(d.Low), percent(d.Low, n)},
		{"medium (11-20)", strconv.Itoa(d.Medium), percent(d.Medium, n)},
		{"high (21-50)", strconv.Itoa(d.High), percent(d.High, n)},
		{"very high (51+)", strconv.Itoa(d.VeryHigh), percent(d.VeryHigh, n)},
	}
	return &Table{
		Title:   "Complexity Distribution",
		Headers: []string{"Level", "Functions", "Share"},
		Rows:    rows,
		Align:   []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight},
		Data:    d,
	}
}

func hotspotTable(c models.ComplexityStats, top int) *Table {
	fns := slices.Clone(c.FunctionComplexityDetails)
	slices.SortStableFunc(fns, func(a, b models.FunctionComplexityDetail) int {
		if d := cmp.Compare(b.CyclomaticComplexity, a.CyclomaticComplexity); d != 0 {
			return d
		}
		return cmp.Compare(b.CognitiveComplexity, a.CognitiveComplexity)
	})
	fns = fns[:min(top, len(fns))]

	t := &Table{
		Title:   "Most Complex Functions",
		Headers: []string{"Function", "Location", "Cyclomatic", "Cognitive", "Lines", "Level"},
		Align:   []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignLeft},
		Data:    fns,
	}
	for _, fn := range fns {
		t.Rows = append(t.Rows, []string{
			fn.Name,
			fmt.Sprintf("%s:%d", fn.File, fn.StartLine),
			strconv.Itoa(fn.CyclomaticComplexity),
			strconv.Itoa(fn.CognitiveComplexity),
			strconv.Itoa(fn.LineCount),
			fn.Level.String(),
		})
	}
	return t
}

func healthSection(q models.QualityMetrics) *Section {
	return &Section{
		Title: "Code Health",
		Fields: []Field{
			scoreField("Complexity health", q.CodeHealthScore),
			scoreField("Function size health", q.FunctionSizeHealth),
			scoreField("Nesting health", q.NestingDepthHealth),
			scoreField("Documentation coverage", q.DocumentationCoverage),
			{Label: "Technical debt", Value: fraction(q.TechnicalDebtRatio)},
			{Label: "Duplication estimate", Value: fraction(q.CodeDuplicationRatio)},
		},
	}
}

func scoreField(label string, score float64) Field {
	return Field{Label: label, Value: fmt.Sprintf("%.1f", score), Score: &score}
}

func percent(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(whole))
}

func fraction(v float64) string {
	return fmt.Sprintf("%.1f%%", 100*v)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatAny(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", x)
	default:
		return fmt.Sprint(x)
	}
}
