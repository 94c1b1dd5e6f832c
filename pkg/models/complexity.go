package models

import "fmt"

// ComplexityLevel classifies a function by cyclomatic complexity.
// Levels are ordered: VeryLow < Low < Medium < High < VeryHigh.
type ComplexityLevel int

const (
	LevelVeryLow ComplexityLevel = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelVeryHigh
)

// Upper bounds (inclusive) of each level except VeryHigh.
const (
	VeryLowMax = 5
	LowMax     = 10
	MediumMax  = 20
	HighMax    = 50
)

var levelNames = [...]string{"very_low", "low", "medium", "high", "very_high"}

// LevelFor returns the level for a cyclomatic complexity value.
func LevelFor(cyclomatic int) ComplexityLevel {
	switch {
	case cyclomatic <= VeryLowMax:
		return LevelVeryLow
	case cyclomatic <= LowMax:
		return LevelLow
	case cyclomatic <= MediumMax:
		return LevelMedium
	case cyclomatic <= HighMax:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

func (l ComplexityLevel) String() string {
	if l < LevelVeryLow || l > LevelVeryHigh {
		return "unknown"
	}
	return levelNames[l]
}

// MarshalText implements encoding.TextMarshaler.
func (l ComplexityLevel) MarshalText() ([]byte, error) {
	if l < LevelVeryLow || l > LevelVeryHigh {
		return nil, fmt.Errorf("%w: complexity level %d", ErrSerialization, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *ComplexityLevel) UnmarshalText(text []byte) error {
	for i, name := range levelNames {
		if name == string(text) {
			*l = ComplexityLevel(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown complexity level %q", ErrSerialization, text)
}

// ComplexityDistribution counts functions per complexity level.
type ComplexityDistribution struct {
	VeryLow  int `json:"very_low" yaml:"very_low"`
	Low      int `json:"low" yaml:"low"`
	Medium   int `json:"medium" yaml:"medium"`
	High     int `json:"high" yaml:"high"`
	VeryHigh int `json:"very_high" yaml:"very_high"`
}

// Add increments the bucket for level.
func (d *ComplexityDistribution) Add(level ComplexityLevel) {
	switch level {
	case LevelVeryLow:
		d.VeryLow++
	case LevelLow:
		d.Low++
	case LevelMedium:
		d.Medium++
	case LevelHigh:
		d.High++
	case LevelVeryHigh:
		d.VeryHigh++
	}
}

// Merge returns the bucket-wise sum.
func (d ComplexityDistribution) Merge(other ComplexityDistribution) ComplexityDistribution {
	return ComplexityDistribution{
		VeryLow:  d.VeryLow + other.VeryLow,
		Low:      d.Low + other.Low,
		Medium:   d.Medium + other.Medium,
		High:     d.High + other.High,
		VeryHigh: d.VeryHigh + other.VeryHigh,
	}
}

// Total returns the number of classified functions.
func (d ComplexityDistribution) Total() int {
	return d.VeryLow + d.Low + d.Medium + d.High + d.VeryHigh
}

// StructureDistribution counts structures per kind.
type StructureDistribution struct {
	Classes    int `json:"classes" yaml:"classes"`
	Interfaces int `json:"interfaces" yaml:"interfaces"`
	Traits     int `json:"traits" yaml:"traits"`
	Enums      int `json:"enums" yaml:"enums"`
	Structs    int `json:"structs" yaml:"structs"`
	Modules    int `json:"modules" yaml:"modules"`
	Namespaces int `json:"namespaces" yaml:"namespaces"`
}

// Add increments the bucket for kind.
func (d *StructureDistribution) Add(kind StructureType) {
	switch kind {
	case StructureClass:
		d.Classes++
	case StructureInterface:
		d.Interfaces++
	case StructureTrait:
		d.Traits++
	case StructureEnum:
		d.Enums++
	case StructureStruct:
		d.Structs++
	case StructureModule:
		d.Modules++
	case StructureNamespace:
		d.Namespaces++
	}
}

// Merge returns the bucket-wise sum.
func (d StructureDistribution) Merge(other StructureDistribution) StructureDistribution {
	return StructureDistribution{
		Classes:    d.Classes + other.Classes,
		Interfaces: d.Interfaces + other.Interfaces,
		Traits:     d.Traits + other.Traits,
		Enums:      d.Enums + other.Enums,
		Structs:    d.Structs + other.Structs,
		Modules:    d.Modules + other.Modules,
		Namespaces: d.Namespaces + other.Namespaces,
	}
}

// Total returns the number of counted structures.
func (d StructureDistribution) Total() int {
	return d.Classes + d.Interfaces + d.Traits + d.Enums + d.Structs + d.Modules + d.Namespaces
}

// FunctionComplexityDetail is the per-function entry of a ComplexityStats.
type FunctionComplexityDetail struct {
	File                    string          `json:"file" yaml:"file"`
	Name                    string          `json:"name" yaml:"name"`
	StartLine               int             `json:"start_line" yaml:"start_line"`
	EndLine                 int             `json:"end_line" yaml:"end_line"`
	LineCount               int             `json:"line_count" yaml:"line_count"`
	CyclomaticComplexity    int             `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	CognitiveComplexity     int             `json:"cognitive_complexity" yaml:"cognitive_complexity"`
	NestingDepth            int             `json:"nesting_depth" yaml:"nesting_depth"`
	ParameterCount          int             `json:"parameter_count" yaml:"parameter_count"`
	Level                   ComplexityLevel `json:"level" yaml:"level"`
	MaintainabilityConcerns []string        `json:"maintainability_concerns" yaml:"maintainability_concerns"`
}

// QualityMetrics are the complexity-derived health scores (0-100) and debt ratios (0-1).
type QualityMetrics struct {
	CodeHealthScore       float64 `json:"code_health_score" yaml:"code_health_score"`
	FunctionSizeHealth    float64 `json:"function_size_health" yaml:"function_size_health"`
	NestingDepthHealth    float64 `json:"nesting_depth_health" yaml:"nesting_depth_health"`
	DocumentationCoverage float64 `json:"documentation_coverage" yaml:"documentation_coverage"`
	TechnicalDebtRatio    float64 `json:"technical_debt_ratio" yaml:"technical_debt_ratio"`
	CodeDuplicationRatio  float64 `json:"code_duplication_ratio" yaml:"code_duplication_ratio"`
}

// ComplexityStats is the file- or project-scope complexity summary.
//
// The Total* fields, CommentedLines and DocLines are the raw sums every
// derived scalar is recomputed from after a merge. Entries of
// ComplexityByExtension carry no function details and no percentiles.
type ComplexityStats struct {
	FunctionCount  int `json:"function_count" yaml:"function_count"`
	StructureCount int `json:"structure_count" yaml:"structure_count"`
	MethodCount    int `json:"method_count" yaml:"method_count"`

	CyclomaticComplexity  float64 `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	CognitiveComplexity   float64 `json:"cognitive_complexity" yaml:"cognitive_complexity"`
	MaxCyclomatic         int     `json:"max_cyclomatic" yaml:"max_cyclomatic"`
	MaxCognitive          int     `json:"max_cognitive" yaml:"max_cognitive"`
	P50Cyclomatic         float64 `json:"p50_cyclomatic" yaml:"p50_cyclomatic"`
	P90Cyclomatic         float64 `json:"p90_cyclomatic" yaml:"p90_cyclomatic"`
	AverageFunctionLength float64 `json:"average_function_length" yaml:"average_function_length"`
	MaxFunctionLength     int     `json:"max_function_length" yaml:"max_function_length"`
	MinFunctionLength     int     `json:"min_function_length" yaml:"min_function_length"`
	AverageNestingDepth   float64 `json:"average_nesting_depth" yaml:"average_nesting_depth"`
	MaxNestingDepth       int     `json:"max_nesting_depth" yaml:"max_nesting_depth"`
	AverageParameterCount float64 `json:"average_parameter_count" yaml:"average_parameter_count"`
	MaxParameterCount     int     `json:"max_parameter_count" yaml:"max_parameter_count"`
	MethodsPerClass       float64 `json:"methods_per_class" yaml:"methods_per_class"`
	MaintainabilityIndex  float64 `json:"maintainability_index" yaml:"maintainability_index"`

	TotalCyclomatic    int `json:"total_cyclomatic" yaml:"total_cyclomatic"`
	TotalCognitive     int `json:"total_cognitive" yaml:"total_cognitive"`
	TotalFunctionLines int `json:"total_function_lines" yaml:"total_function_lines"`
	TotalNesting       int `json:"total_nesting" yaml:"total_nesting"`
	TotalParameters    int `json:"total_parameters" yaml:"total_parameters"`
	TotalLines         int `json:"total_lines" yaml:"total_lines"`
	CommentedLines     int `json:"commented_lines" yaml:"commented_lines"`
	DocLines           int `json:"doc_lines" yaml:"doc_lines"`

	ComplexityDistribution    ComplexityDistribution     `json:"complexity_distribution" yaml:"complexity_distribution"`
	StructureDistribution     StructureDistribution      `json:"structure_distribution" yaml:"structure_distribution"`
	ComplexityByExtension     map[string]ComplexityStats `json:"complexity_by_extension,omitempty" yaml:"complexity_by_extension,omitempty"`
	FunctionComplexityDetails []FunctionComplexityDetail `json:"function_complexity_details" yaml:"function_complexity_details"`
	QualityMetrics            QualityMetrics             `json:"quality_metrics" yaml:"quality_metrics"`
}
