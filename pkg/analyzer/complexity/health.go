package complexity

import (
	"math"

	"github.com/panbanda/codestat/pkg/stats"
)

// -----------------------------------------------------------------------------
// Health scores
// -----------------------------------------------------------------------------
//
// Each score maps an average to 0-100 through a piecewise linear curve that
// never increases. Slopes steepen where the raw metric starts to hurt and
// flatten again once the code is already in poor shape.
// -----------------------------------------------------------------------------

// CodeHealth scores an average cyclomatic complexity.
//
//	<= 5: 100, 10: 80, 20: 50, 50: 5, then -0.1 per point down to 0
func CodeHealth(avgCyclomatic float64) float64 {
	cc := avgCyclomatic
	var score float64
	switch {
	case cc <= 5:
		score = 100
	case cc <= 10:
		score = 100 - (cc-5)*4
	case cc <= 20:
		score = 80 - (cc-10)*3
	case cc <= 50:
		score = 50 - (cc-20)*1.5
	default:
		score = 5 - (cc-50)*0.1
	}
	return stats.Clamp(score, 0, 100)
}

// FunctionSizeHealth scores an average function length in lines.
//
//	<= 20: 100, 50: 70, 100: 30, then -0.2 per line down to 0
func FunctionSizeHealth(avgLength float64) float64 {
	l := avgLength
	var score float64
	switch {
	case l <= 20:
		score = 100
	case l <= 50:
		score = 100 - (l - 20)
	case l <= 100:
		score = 70 - (l-50)*0.8
	default:
		score = 30 - (l-100)*0.2
	}
	return stats.Clamp(score, 0, 100)
}

// NestingHealth scores an average maximum nesting depth.
//
//	<= 2: 100, 4: 70, 6: 30, then -10 per level down to 0
func NestingHealth(avgNesting float64) float64 {
	n := avgNesting
	var score float64
	switch {
	case n <= 2:
		score = 100
	case n <= 4:
		score = 100 - (n-2)*15
	case n <= 6:
		score = 70 - (n-4)*20
	default:
		score = 30 - (n-6)*10
	}
	return stats.Clamp(score, 0, 100)
}

// MaintainabilityIndex is the normalized maintainability index:
//
//	(171 - 0.23*cc - 16.2*ln(max(len,1)) + 50*sin(sqrt(2.4*density))) * 100/171
//
// clamped to [0,100], where density is the share of commented lines.
func MaintainabilityIndex(avgCyclomatic, avgLength, commentDensity float64) float64 {
	mi := 171 -
		0.23*avgCyclomatic -
		16.2*math.Log(math.Max(avgLength, 1)) +
		50*math.Sin(math.Sqrt(2.4*math.Max(commentDensity, 0)))
	return stats.Clamp(mi*100/171, 0, 100)
}
