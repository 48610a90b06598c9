// Package algo has the pure scoring functions: normalization curves,
// weighted aggregation, ranking and value conversion.
package algo

import (
	"math"

	"github.com/huangsam/analyzer/schema"
)

// Normalize maps value onto [0, 1] relative to the spread of allValues.
// A degenerate spread (max == min) or an empty distribution yields 0 for every strategy.
func Normalize(strategy schema.NormalizationStrategy, value float64, allValues []float64) float64 {
	if len(allValues) == 0 {
		return 0
	}
	lo, hi := bounds(allValues)
	if hi == lo {
		return 0
	}
	// up is (x-min)/r and down is (max-x)/r.
	up, down := spread(value, lo, hi)

	switch strategy.Migrate() {
	case schema.MinStrategy:
		return down
	case schema.QuartMaxStrategy:
		return math.Pow(up, 4)
	case schema.InverseQuartMaxStrategy:
		return 1 - math.Pow(down, 4)
	case schema.QuartMinStrategy:
		return math.Pow(down, 4)
	case schema.InverseQuartMinStrategy:
		return 1 - math.Pow(up, 4)
	default: // Max
		return up
	}
}

// spread returns the distances of value from lo and from hi as fractions of hi - lo.
// A range wider than MaxFloat64 is halved first so r stays finite.
func spread(value, lo, hi float64) (up, down float64) {
	r := hi - lo
	if math.IsInf(r, 0) {
		value, lo, hi = value/2, lo/2, hi/2
		r = hi - lo
	}
	return (value - lo) / r, (hi - value) / r
}

// bounds returns the min and max of a non-empty slice.
func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Curve describes a normalization strategy for display.
type Curve struct {
	Strategy schema.NormalizationStrategy
	Formula  string
	Purpose  string
}

// Curves lists every live strategy with its formula over x = value, r = max - min.
var Curves = []Curve{
	{schema.MaxStrategy, "(x-min)/r", "Linear, higher is better"},
	{schema.MinStrategy, "(max-x)/r", "Linear, lower is better"},
	{schema.QuartMaxStrategy, "((x-min)/r)^4", "Quartic, rewards only values near max"},
	{schema.InverseQuartMaxStrategy, "1-((x-max)/r)^4", "Quartic, penalizes only values near min"},
	{schema.QuartMinStrategy, "((x-max)/r)^4", "Quartic, rewards only values near min"},
	{schema.InverseQuartMinStrategy, "1-((x-min)/r)^4", "Quartic, penalizes only values near max"},
}

// SamplePositions are the relative positions in [min, max] used to tabulate curves.
var SamplePositions = []float64{0, 0.25, 0.5, 0.75, 1}

// Sample evaluates a strategy at each of SamplePositions on a unit range.
func Sample(strategy schema.NormalizationStrategy) []float64 {
	unit := []float64{0, 1}
	out := make([]float64, len(SamplePositions))
	for i, x := range SamplePositions {
		out[i] = Normalize(strategy, x, unit)
	}
	return out
}
