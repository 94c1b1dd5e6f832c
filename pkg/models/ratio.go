package models

// ExtensionRatios holds the six line ratios for one extension.
type ExtensionRatios struct {
	CodeRatio          float64 `json:"code_ratio" yaml:"code_ratio"`
	CommentRatio       float64 `json:"comment_ratio" yaml:"comment_ratio"`
	DocRatio           float64 `json:"doc_ratio" yaml:"doc_ratio"`
	BlankRatio         float64 `json:"blank_ratio" yaml:"blank_ratio"`
	CommentToCodeRatio float64 `json:"comment_to_code_ratio" yaml:"comment_to_code_ratio"`
	DocToCodeRatio     float64 `json:"doc_to_code_ratio" yaml:"doc_to_code_ratio"`
}

// RatioQuality scores (0-100) derived from line ratios.
type RatioQuality struct {
	DocumentationScore   float64 `json:"documentation_score" yaml:"documentation_score"`
	MaintainabilityScore float64 `json:"maintainability_score" yaml:"maintainability_score"`
	ReadabilityScore     float64 `json:"readability_score" yaml:"readability_score"`
	ConsistencyScore     float64 `json:"consistency_score" yaml:"consistency_score"`
	OverallQualityScore  float64 `json:"overall_quality_score" yaml:"overall_quality_score"`
}

// RatioStats is the ratio view of a file or project.
// Every ratio is in [0,1] except the *ToCode ratios, which are unbounded.
type RatioStats struct {
	CodeRatio          float64 `json:"code_ratio" yaml:"code_ratio"`
	CommentRatio       float64 `json:"comment_ratio" yaml:"comment_ratio"`
	DocRatio           float64 `json:"doc_ratio" yaml:"doc_ratio"`
	BlankRatio         float64 `json:"blank_ratio" yaml:"blank_ratio"`
	CommentToCodeRatio float64 `json:"comment_to_code_ratio" yaml:"comment_to_code_ratio"`
	DocToCodeRatio     float64 `json:"doc_to_code_ratio" yaml:"doc_to_code_ratio"`

	RatiosByExtension    map[string]ExtensionRatios `json:"ratios_by_extension" yaml:"ratios_by_extension"`
	LanguageDistribution map[string]float64         `json:"language_distribution" yaml:"language_distribution"`
	FileDistribution     map[string]float64         `json:"file_distribution" yaml:"file_distribution"`
	SizeDistribution     map[string]float64         `json:"size_distribution" yaml:"size_distribution"`
	QualityMetrics       RatioQuality               `json:"quality_metrics" yaml:"quality_metrics"`
}

// Ratios returns the top-level ratios as an ExtensionRatios value.
func (r RatioStats) Ratios() ExtensionRatios {
	return ExtensionRatios{
		CodeRatio:          r.CodeRatio,
		CommentRatio:       r.CommentRatio,
		DocRatio:           r.DocRatio,
		BlankRatio:         r.BlankRatio,
		CommentToCodeRatio: r.CommentToCodeRatio,
		DocToCodeRatio:     r.DocToCodeRatio,
	}
}
