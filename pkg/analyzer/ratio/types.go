package ratio

import (
	"fmt"
	"math"

	"github.com/panbanda/codestat/pkg/models"
)

// QualityThresholds are the targets the ratio scores are measured against.
type QualityThresholds struct {
	GoodCommentRatio   float64 `json:"good_comment_ratio" toml:"good_comment_ratio"`
	GoodDocRatio       float64 `json:"good_doc_ratio" toml:"good_doc_ratio"`
	MaxBlankRatio      float64 `json:"max_blank_ratio" toml:"max_blank_ratio"`
	IdealCommentToCode float64 `json:"ideal_comment_to_code" toml:"ideal_comment_to_code"`
	IdealDocToCode     float64 `json:"ideal_doc_to_code" toml:"ideal_doc_to_code"`
}

// DefaultQualityThresholds returns the default targets.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		GoodCommentRatio:   0.15,
		GoodDocRatio:       0.05,
		MaxBlankRatio:      0.25,
		IdealCommentToCode: 0.20,
		IdealDocToCode:     0.10,
	}
}

// Validate rejects targets outside (0,1).
func (t QualityThresholds) Validate() error {
	for name, v := range map[string]float64{
		"good_comment_ratio":    t.GoodCommentRatio,
		"good_doc_ratio":        t.GoodDocRatio,
		"max_blank_ratio":       t.MaxBlankRatio,
		"ideal_comment_to_code": t.IdealCommentToCode,
		"ideal_doc_to_code":     t.IdealDocToCode,
	} {
		if v <= 0 || v >= 1 {
			return fmt.Errorf("%w: quality threshold %s = %g, want a value in (0,1)", models.ErrInvalidConfig, name, v)
		}
	}
	return nil
}

// Weights defines the weight of each sub-score in the overall quality score
// (must sum to 1.0).
type Weights struct {
	Documentation   float64 `json:"documentation" toml:"documentation"`
	Maintainability float64 `json:"maintainability" toml:"maintainability"`
	Readability     float64 `json:"readability" toml:"readability"`
	Consistency     float64 `json:"consistency" toml:"consistency"`
}

// DefaultWeights returns the default weights.
func DefaultWeights() Weights {
	return Weights{
		Documentation:   0.30,
		Maintainability: 0.35,
		Readability:     0.20,
		Consistency:     0.15,
	}
}

const weightTolerance = 1e-6

// Validate checks that weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.Documentation < 0 || w.Maintainability < 0 || w.Readability < 0 || w.Consistency < 0 {
		return fmt.Errorf("%w: quality weights must not be negative", models.ErrInvalidConfig)
	}
	sum := w.Documentation + w.Maintainability + w.Readability + w.Consistency
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: quality weights sum to %.6f, want 1", models.ErrInvalidConfig, sum)
	}
	return nil
}
