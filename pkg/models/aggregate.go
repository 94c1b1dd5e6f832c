package models

import (
	"fmt"
	"time"
)

// AnalysisDepth is how much of the pipeline ran.
// Depths are ordered: Basic < Standard < Advanced < Complete.
type AnalysisDepth int

const (
	// DepthBasic counts lines only.
	DepthBasic AnalysisDepth = iota
	// DepthStandard adds ratios.
	DepthStandard
	// DepthAdvanced adds structural complexity.
	DepthAdvanced
	// DepthComplete adds quality insights.
	DepthComplete
)

var depthNames = [...]string{"basic", "standard", "advanced", "complete"}

func (d AnalysisDepth) String() string {
	if d < DepthBasic || d > DepthComplete {
		return "unknown"
	}
	return depthNames[d]
}

// ParseDepth parses a depth name.
func ParseDepth(s string) (AnalysisDepth, error) {
	for i, name := range depthNames {
		if name == s {
			return AnalysisDepth(i), nil
		}
	}
	return DepthBasic, fmt.Errorf("%w: unknown analysis depth %q (want basic, standard, advanced or complete)", ErrInvalidConfig, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d AnalysisDepth) MarshalText() ([]byte, error) {
	if d < DepthBasic || d > DepthComplete {
		return nil, fmt.Errorf("%w: analysis depth %d", ErrSerialization, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *AnalysisDepth) UnmarshalText(text []byte) error {
	v, err := ParseDepth(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	*d = v
	return nil
}

// StatsMetadata describes how and when a result was produced.
type StatsMetadata struct {
	CalculationTimeMs int64         `json:"calculation_time_ms" yaml:"calculation_time_ms"`
	ToolVersion       string        `json:"tool_version" yaml:"tool_version"`
	Timestamp         time.Time     `json:"timestamp" yaml:"timestamp"`
	FilesAnalyzed     int           `json:"files_analyzed" yaml:"files_analyzed"`
	BytesAnalyzed     int64         `json:"bytes_analyzed" yaml:"bytes_analyzed"`
	Languages         []string      `json:"languages" yaml:"languages"`
	Depth             AnalysisDepth `json:"depth" yaml:"depth"`
	Commit            string        `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// AggregatedStats bundles every view of an analysis.
type AggregatedStats struct {
	Basic      CodeStats       `json:"basic" yaml:"basic"`
	Complexity ComplexityStats `json:"complexity" yaml:"complexity"`
	Ratios     RatioStats      `json:"ratios" yaml:"ratios"`
	Metadata   StatsMetadata   `json:"metadata" yaml:"metadata"`
}
