package complexity

import (
	"fmt"

	"github.com/panbanda/codestat/pkg/models"
)

// Thresholds defines the limits past which a function gets a
// maintainability concern.
type Thresholds struct {
	MaxCyclomatic     int `json:"max_cyclomatic" toml:"max_cyclomatic"`
	MaxNesting        int `json:"max_nesting" toml:"max_nesting"`
	MaxParameters     int `json:"max_parameters" toml:"max_parameters"`
	MaxFunctionLength int `json:"max_function_length" toml:"max_function_length"`
}

// DefaultThresholds returns the default limits. MaxCyclomatic is the upper
// bound of the Medium level.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxCyclomatic:     models.MediumMax,
		MaxNesting:        4,
		MaxParameters:     5,
		MaxFunctionLength: 80,
	}
}

// Validate rejects non-positive limits.
func (t Thresholds) Validate() error {
	if t.MaxCyclomatic <= 0 || t.MaxNesting <= 0 || t.MaxParameters <= 0 || t.MaxFunctionLength <= 0 {
		return fmt.Errorf("%w: complexity thresholds must be positive: %+v", models.ErrInvalidConfig, t)
	}
	return nil
}

// Maintainability concerns attached to a FunctionComplexityDetail.
const (
	ConcernHighComplexity = "high_complexity"
	ConcernDeepNesting    = "deep_nesting"
	ConcernManyParameters = "too_many_parameters"
	ConcernLongFunction   = "long_function"
)

// Concerns returns every limit fn exceeds. Each check is independent.
func (t Thresholds) Concerns(fn models.FunctionInfo) []string {
	concerns := []string{}
	if fn.CyclomaticComplexity > t.MaxCyclomatic {
		concerns = append(concerns, ConcernHighComplexity)
	}
	if fn.NestingDepth > t.MaxNesting {
		concerns = append(concerns, ConcernDeepNesting)
	}
	if fn.ParameterCount > t.MaxParameters {
		concerns = append(concerns, ConcernManyParameters)
	}
	if fn.LineCount > t.MaxFunctionLength {
		concerns = append(concerns, ConcernLongFunction)
	}
	return concerns
}

// FileInput is one file of a project-level calculation.
type FileInput struct {
	Path  string
	Stats models.FileStats
	Lines []string
}
