package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/codestat/pkg/analyzer/aggregate"
	"github.com/panbanda/codestat/pkg/models"
)

func sampleStats(depth models.AnalysisDepth) models.AggregatedStats {
	code := models.NewCodeStats()
	code.AddFile(".go", models.FileStats{TotalLines: 100, CodeLines: 70, CommentLines: 10, DocLines: 5, BlankLines: 15, FileSize: 2048})
	code.AddFile(".py", models.FileStats{TotalLines: 40, CodeLines: 30, CommentLines: 4, BlankLines: 6, FileSize: 900})

	return models.AggregatedStats{
		Basic: code,
		Complexity: models.ComplexityStats{
			FunctionCount:        3,
			CyclomaticComplexity: 9,
			MaxCyclomatic:        22,
			ComplexityDistribution: models.ComplexityDistribution{
				VeryLow: 1, Low: 1, High: 1,
			},
			FunctionComplexityDetails: []models.FunctionComplexityDetail{
				{File: "a.go", Name: "small", StartLine: 1, CyclomaticComplexity: 1, Level: models.LevelVeryLow, MaintainabilityConcerns: []string{}},
				{File: "a.go", Name: "huge", StartLine: 10, CyclomaticComplexity: 22, Level: models.LevelHigh, MaintainabilityConcerns: []string{"high_complexity"}},
				{File: "b.py", Name: "mid", StartLine: 3, CyclomaticComplexity: 6, Level: models.LevelLow, MaintainabilityConcerns: []string{}},
			},
		},
		Ratios: models.RatioStats{
			CodeRatio:      0.7,
			QualityMetrics: models.RatioQuality{OverallQualityScore: 72.5},
		},
		Metadata: models.StatsMetadata{
			CalculationTimeMs: 12,
			ToolVersion:       "1.0.0",
			Timestamp:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			FilesAnalyzed:     2,
			BytesAnalyzed:     2948,
			Languages:         []string{"Go", "Python"},
			Depth:             depth,
		},
	}
}

func sectionTitles(r *Report) []string {
	var titles []string
	for _, s := range r.Sections {
		switch v := s.(type) {
		case *Section:
			titles = append(titles, v.Title)
		case *Table:
			titles = append(titles, v.Title)
		}
	}
	return titles
}

func TestStatsReportSectionsFollowDepth(t *testing.T) {
	tests := []struct {
		depth models.AnalysisDepth
		want  []string
	}{
		{models.DepthBasic, []string{"Overview", "Languages"}},
		{models.DepthStandard, []string{"Overview", "Languages", "Ratios"}},
		{models.DepthAdvanced, []string{"Overview", "Languages", "Ratios", "Complexity", "Complexity Distribution", "Most Complex Functions"}},
		{models.DepthComplete, []string{"Overview", "Languages", "Ratios", "Complexity", "Complexity Distribution", "Most Complex Functions", "Code Health"}},
	}

	for _, tt := range tests {
		t.Run(tt.depth.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, sectionTitles(NewStatsReport(sampleStats(tt.depth))))
		})
	}
}

func TestStatsReportHotspots(t *testing.T) {
	r := NewStatsReport(sampleStats(models.DepthAdvanced), WithTopFunctions(2))

	hot, ok := r.Sections[len(r.Sections)-1].(*Table)
	require.True(t, ok)
	require.Len(t, hot.Rows, 2)
	assert.Equal(t, "huge", hot.Rows[0][0])
	assert.Equal(t, "a.go:10", hot.Rows[0][1])
	assert.Equal(t, "mid", hot.Rows[1][0])

	r = NewStatsReport(sampleStats(models.DepthAdvanced), WithTopFunctions(0))
	assert.NotContains(t, sectionTitles(r), "Most Complex Functions")
}

func TestStatsReportLanguageTable(t *testing.T) {
	r := NewStatsReport(sampleStats(models.DepthBasic), WithTitle("Project"))
	assert.Equal(t, "Project", r.Title)

	langs, ok := r.Sections[1].(*Table)
	require.True(t, ok)
	assert.Equal(t, []string{".go", "Go", "1", "100", "70", "10", "5", "15", "70.0%"}, langs.Rows[0])
	assert.Equal(t, []string{".py", "Python", "1", "40", "30", "4", "0", "6", "75.0%"}, langs.Rows[1])
	assert.Equal(t, []string{"Total", "", "2", "140", "100", "14", "5", "21", "71.4%"}, langs.Footer)
}

func TestStatsReportStructuredOutputIsStats(t *testing.T) {
	want := sampleStats(models.DepthComplete)

	var buf bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatJSON, &buf, false).Output(NewStatsReport(want)))

	var got models.AggregatedStats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatText, &buf, false).Output(NewStatsReport(sampleStats(models.DepthComplete))))

	out := buf.String()
	for _, want := range []string{"Code Statistics", "Overview", "Python", "2.9 KiB", "huge", "Code Health"} {
		assert.Contains(t, out, want)
	}
}

func TestStatsReportMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatMarkdown, &buf, false).Output(NewStatsReport(sampleStats(models.DepthStandard))))

	out := buf.String()
	assert.Contains(t, out, "# Code Statistics\n")
	assert.Contains(t, out, "| .go | Go | 1 | 100 |")
	assert.Contains(t, out, "- **Overall quality:** 72.5")
}

func TestSummarySection(t *testing.T) {
	s := NewSummarySection(aggregate.Summary(sampleStats(models.DepthComplete)))

	labels := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		labels[i] = f.Label
	}
	assert.Equal(t, []string{"Files", "Lines", "Code lines", "Functions", "Avg complexity", "Quality score", "Languages"}, labels)
	assert.Equal(t, "72.50", s.Fields[5].Value)
	require.NotNil(t, s.Fields[5].Score)
	assert.Equal(t, "2", s.Fields[6].Value)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
