package complexity

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/codestat/internal/progress"
	"github.com/panbanda/codestat/pkg/analyzer/ratio"
	"github.com/panbanda/codestat/pkg/lang"
	"github.com/panbanda/codestat/pkg/models"
)

const goServer = `package demo

import "context"

type Server struct {
	addr string
	port int
}

func (s *Server) Start(ctx context.Context, retries int) error {
	if ctx == nil {
		if retries > 0 {
			if s.addr != "" {
				return nil
			}
		}
	}
	return nil
}

func helper() {}
`

const nestedFunc = `func nested%d(a, b int) int {
	if a > 0 {
		if b > 0 {
			if a > b {
				return a
			}
		}
	}
	return 0
}
`

func input(t *testing.T, path, src string) FileInput {
	t.Helper()
	l, ok := lang.ForPath(path)
	require.True(t, ok, "no language for %s", path)
	return FileInput{Path: path, Stats: lang.Classify([]byte(src), l), Lines: lang.SplitLines(src)}
}

func fileStats(c *Calculator, in FileInput) models.ComplexityStats {
	return c.CalculateFileStats(in.Path, in.Stats, in.Lines)
}

func codeStats(files ...FileInput) models.CodeStats {
	code := models.NewCodeStats()
	for _, f := range files {
		code.AddFile(strings.ToLower(f.Path[strings.LastIndex(f.Path, "."):]), f.Stats)
	}
	return code
}

func trivialFile(n int) string {
	var b strings.Builder
	b.WriteString("package demo\n\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "func t%d() {}\n", i)
	}
	return b.String()
}

func TestCalculateFileStats(t *testing.T) {
	c := New()
	in := input(t, "server.go", goServer)
	got := fileStats(c, in)

	assert.Equal(t, 2, got.FunctionCount)
	assert.Equal(t, 1, got.StructureCount)
	assert.Equal(t, 1, got.MethodCount)
	assert.InDelta(t, 2.5, got.CyclomaticComplexity, 1e-9)
	assert.InDelta(t, 3.0, got.CognitiveComplexity, 1e-9)
	assert.Equal(t, 4, got.MaxCyclomatic)
	assert.Equal(t, 6, got.MaxCognitive)
	assert.InDelta(t, 5.5, got.AverageFunctionLength, 1e-9)
	assert.Equal(t, 10, got.MaxFunctionLength)
	assert.Equal(t, 1, got.MinFunctionLength)
	assert.InDelta(t, 1.5, got.AverageNestingDepth, 1e-9)
	assert.Equal(t, 3, got.MaxNestingDepth)
	assert.InDelta(t, 1.0, got.AverageParameterCount, 1e-9)
	assert.Equal(t, 2, got.MaxParameterCount)
	assert.InDelta(t, 1.0, got.MethodsPerClass, 1e-9)
	assert.Equal(t, in.Stats.TotalLines, got.TotalLines)

	assert.Equal(t, models.ComplexityDistribution{VeryLow: 2}, got.ComplexityDistribution)
	assert.Equal(t, models.StructureDistribution{Structs: 1}, got.StructureDistribution)

	require.Len(t, got.FunctionComplexityDetails, 2)
	start := got.FunctionComplexityDetails[0]
	assert.Equal(t, "Start", start.Name)
	assert.Equal(t, "server.go", start.File)
	assert.Equal(t, models.LevelVeryLow, start.Level)
	assert.Empty(t, start.MaintainabilityConcerns)
	assert.Equal(t, "helper", got.FunctionComplexityDetails[1].Name)

	assert.InDelta(t, MaintainabilityIndex(2.5, 5.5, 0), got.MaintainabilityIndex, 1e-9)

	require.Contains(t, got.ComplexityByExtension, ".go")
	ext := got.ComplexityByExtension[".go"]
	assert.Equal(t, 2, ext.FunctionCount)
	assert.Nil(t, ext.FunctionComplexityDetails)
	assert.Nil(t, ext.ComplexityByExtension)
	assert.InDelta(t, got.CyclomaticComplexity, ext.CyclomaticComplexity, 1e-9)
}

func TestUnsupportedExtension(t *testing.T) {
	got := New().CalculateFileStats("README.md", models.FileStats{TotalLines: 3, CodeLines: 3}, []string{"# x", "func a() {", "}"})
	assert.Zero(t, got.FunctionCount)
	assert.Zero(t, got.StructureCount)
	assert.Zero(t, got.MethodCount)
	assert.Zero(t, got.ComplexityDistribution.Total())
	assert.Zero(t, got.StructureDistribution.Total())
	assert.Empty(t, got.FunctionComplexityDetails)
	assert.Nil(t, got.ComplexityByExtension)
	assert.Equal(t, 3, got.TotalLines)
}

func TestCombineIsAssociativeAndCommutative(t *testing.T) {
	c := New()
	a := fileStats(c, input(t, "a/server.go", goServer))
	b := fileStats(c, input(t, "b/many.go", trivialFile(5)))
	d := fileStats(c, input(t, "c/nested.go", "package demo\n\n"+fmt.Sprintf(nestedFunc, 1)))

	all := c.Combine(a, b, d)
	if diff := cmp.Diff(all, c.Combine(c.Combine(a, b), d)); diff != "" {
		t.Errorf("left grouping mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(all, c.Combine(a, c.Combine(b, d))); diff != "" {
		t.Errorf("right grouping mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(all, c.Combine(d, b, a)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 8, all.FunctionCount)
	assert.Equal(t, 1, all.MinFunctionLength)
	assert.Equal(t, 10, all.MaxFunctionLength)
	assert.Equal(t, 8, all.ComplexityDistribution.Total())
	assert.Equal(t, "a/server.go", all.FunctionComplexityDetails[0].File)
	assert.Equal(t, "c/nested.go", all.FunctionComplexityDetails[7].File)
	assert.Equal(t, 8, all.ComplexityByExtension[".go"].FunctionCount)

	// Same file, name and span at two revisions.
	plain := fileStats(c, input(t, "a/run.go", "package demo\n\nfunc Run(x int) int {\n\ty := x\n\treturn y\n}\n"))
	branchy := fileStats(c, input(t, "a/run.go", "package demo\n\nfunc Run(x int) int {\n\tif x > 0 && x < 9 { return 1 }\n\treturn x\n}\n"))
	require.Len(t, plain.FunctionComplexityDetails, 1)
	require.Len(t, branchy.FunctionComplexityDetails, 1)
	require.NotEqual(t, plain.FunctionComplexityDetails[0].CyclomaticComplexity,
		branchy.FunctionComplexityDetails[0].CyclomaticComplexity)

	tied := c.Combine(plain, branchy)
	if diff := cmp.Diff(tied, c.Combine(branchy, plain)); diff != "" {
		t.Errorf("tied details depend on order (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, tied.FunctionComplexityDetails[0].CyclomaticComplexity)
	assert.Equal(t, 3, tied.FunctionComplexityDetails[1].CyclomaticComplexity)
}

func TestCombineSingleIsIdentity(t *testing.T) {
	c := New()
	a := fileStats(c, input(t, "server.go", goServer))
	if diff := cmp.Diff(a, c.Combine(a)); diff != "" {
		t.Errorf("Combine(a) != a (-want +got):\n%s", diff)
	}
}

func TestCombineDoesNotMutateInputs(t *testing.T) {
	c := New()
	a := fileStats(c, input(t, "z.go", goServer))
	b := fileStats(c, input(t, "a.go", trivialFile(2)))
	first := a.FunctionComplexityDetails[0]

	_ = c.Combine(a, b)
	assert.Equal(t, first, a.FunctionComplexityDetails[0])
	assert.Equal(t, 2, a.ComplexityByExtension[".go"].FunctionCount)
}

func TestCalculateProjectStatsEqualsCombine(t *testing.T) {
	c := New(WithWorkers(3))
	files := []FileInput{
		input(t, "server.go", goServer),
		input(t, "many.go", trivialFile(4)),
		input(t, "README.md", "# title\n\ntext\n"),
	}
	perFile := make([]models.ComplexityStats, len(files))
	for i, f := range files {
		perFile[i] = fileStats(c, f)
	}

	counter := progress.NewCounter(nil)
	ctx := progress.WithReporter(context.Background(), counter)
	got := c.CalculateProjectStats(ctx, codeStats(files...), files)

	if diff := cmp.Diff(c.Combine(perFile...), got); diff != "" {
		t.Errorf("CalculateProjectStats mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, counter.Current())
	assert.Equal(t, 3, counter.Total())
}

func TestCalculateProjectStatsUsesCodeTotals(t *testing.T) {
	c := New()
	files := []FileInput{input(t, "server.go", goServer)}
	code := models.CodeStats{TotalFiles: 1, TotalLines: 100, CommentLines: 10, DocLines: 10}

	got := c.CalculateProjectStats(context.Background(), code, files)
	assert.Equal(t, 100, got.TotalLines)
	assert.Equal(t, 20, got.CommentedLines)
	assert.InDelta(t, MaintainabilityIndex(2.5, 5.5, 0.2), got.MaintainabilityIndex, 1e-9)
	assert.InDelta(t, c.ratios.DocumentationScore(0.1, 0.1), got.QualityMetrics.DocumentationCoverage, 1e-9)
}

// One file with many small functions against many files with one larger
// function each: means follow the functions, not the files.
func TestMeansAreWeightedByFunctionCount(t *testing.T) {
	c := New()
	ctx := context.Background()

	t.Run("one file with many functions", func(t *testing.T) {
		files := []FileInput{
			input(t, "many.go", trivialFile(10)),
			input(t, "nested.go", "package demo\n\n"+fmt.Sprintf(nestedFunc, 0)),
		}
		got := c.CalculateProjectStats(ctx, codeStats(files...), files)
		assert.Equal(t, 11, got.FunctionCount)
		assert.InDelta(t, 14.0/11, got.CyclomaticComplexity, 1e-9)
		assert.InDelta(t, 20.0/11, got.AverageFunctionLength, 1e-9)
	})

	t.Run("many files with one function", func(t *testing.T) {
		files := []FileInput{input(t, "one.go", trivialFile(1))}
		for i := 0; i < 10; i++ {
			files = append(files, input(t, fmt.Sprintf("n%02d.go", i), "package demo\n\n"+fmt.Sprintf(nestedFunc, i)))
		}
		got := c.CalculateProjectStats(ctx, codeStats(files...), files)
		assert.Equal(t, 11, got.FunctionCount)
		assert.InDelta(t, 41.0/11, got.CyclomaticComplexity, 1e-9)
		assert.InDelta(t, 101.0/11, got.AverageFunctionLength, 1e-9)
		assert.InDelta(t, 4, got.P50Cyclomatic, 1e-9)
	})
}

func TestQualityMetrics(t *testing.T) {
	c := New()
	got := c.Combine(models.ComplexityStats{
		FunctionCount:          4,
		TotalCyclomatic:        100,
		TotalLines:             100,
		CommentedLines:         15,
		DocLines:               5,
		ComplexityDistribution: models.ComplexityDistribution{VeryLow: 1, Medium: 1, High: 1, VeryHigh: 1},
	})
	q := got.QualityMetrics
	assert.InDelta(t, (0.25+0.6+1.0)/4, q.TechnicalDebtRatio, 1e-9)
	assert.InDelta(t, 0.25, q.CodeDuplicationRatio, 1e-9)
	assert.InDelta(t, 250.0/3, q.DocumentationCoverage, 1e-9)
	assert.InDelta(t, CodeHealth(25), q.CodeHealthScore, 1e-9)

	empty := c.Combine()
	assert.Zero(t, empty.QualityMetrics.TechnicalDebtRatio)
	assert.Zero(t, empty.QualityMetrics.CodeDuplicationRatio)
	assert.Zero(t, empty.CyclomaticComplexity)
}

func TestQualityThresholdsOption(t *testing.T) {
	q := ratio.DefaultQualityThresholds()
	q.GoodCommentRatio = 0.05
	c := New(WithQualityThresholds(q))
	got := c.Combine(models.ComplexityStats{TotalLines: 100, CommentedLines: 10, DocLines: 5})
	assert.InDelta(t, 100, got.QualityMetrics.DocumentationCoverage, 1e-9)
}

func TestConcerns(t *testing.T) {
	th := DefaultThresholds()
	assert.Empty(t, th.Concerns(models.FunctionInfo{CyclomaticComplexity: 20, NestingDepth: 4, ParameterCount: 5, LineCount: 80}))
	assert.Equal(t,
		[]string{ConcernHighComplexity, ConcernDeepNesting, ConcernManyParameters, ConcernLongFunction},
		th.Concerns(models.FunctionInfo{CyclomaticComplexity: 21, NestingDepth: 5, ParameterCount: 6, LineCount: 81}))
	assert.Equal(t, []string{ConcernManyParameters}, th.Concerns(models.FunctionInfo{CyclomaticComplexity: 1, ParameterCount: 9}))

	c := New(WithThresholds(Thresholds{MaxCyclomatic: 3, MaxNesting: 2, MaxParameters: 5, MaxFunctionLength: 80}))
	got := fileStats(c, input(t, "server.go", goServer))
	assert.Equal(t, []string{ConcernHighComplexity, ConcernDeepNesting}, got.FunctionComplexityDetails[0].MaintainabilityConcerns)

	assert.ErrorIs(t, Thresholds{}.Validate(), models.ErrInvalidConfig)
	assert.NoError(t, th.Validate())
}

func TestHealthScores(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"code health simple", CodeHealth, 3, 100},
		{"code health 7.5", CodeHealth, 7.5, 90},
		{"code health 10", CodeHealth, 10, 80},
		{"code health 20", CodeHealth, 20, 50},
		{"code health 50", CodeHealth, 50, 5},
		{"code health floor", CodeHealth, 200, 0},
		{"size short", FunctionSizeHealth, 12, 100},
		{"size 50", FunctionSizeHealth, 50, 70},
		{"size 100", FunctionSizeHealth, 100, 30},
		{"size floor", FunctionSizeHealth, 400, 0},
		{"nesting flat", NestingHealth, 1, 100},
		{"nesting 4", NestingHealth, 4, 70},
		{"nesting 6", NestingHealth, 6, 30},
		{"nesting floor", NestingHealth, 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.fn(tt.in), 1e-9)
		})
	}

	for _, fn := range []func(float64) float64{CodeHealth, FunctionSizeHealth, NestingHealth} {
		prev := fn(0)
		for x := 0.25; x < 300; x += 0.25 {
			cur := fn(x)
			require.LessOrEqual(t, cur, prev, "score increased at %v", x)
			prev = cur
		}
	}
}

func TestMaintainabilityIndex(t *testing.T) {
	assert.InDelta(t, 100, MaintainabilityIndex(0, 0, 0), 1e-9)
	assert.InDelta(t, 70.27434922130136, MaintainabilityIndex(10, 20, 0), 1e-9)
	assert.InDelta(t, 96.59275557096304, MaintainabilityIndex(2, 10, 0.2), 1e-9)
	assert.Zero(t, MaintainabilityIndex(500, 5000, 0))
}
