package core

import (
	"slices"

	"github.com/huangsam/analyzer/core/algo"
	"github.com/huangsam/analyzer/schema"
)

// BuildMetricsModel tabulates every normalization curve at algo.SamplePositions.
func BuildMetricsModel() schema.MetricsRenderModel {
	model := schema.MetricsRenderModel{
		Title: "Normalization Curves",
		Description: "Each scoring property maps a raw value x onto [0, 1] relative to the " +
			"smallest and largest value of that property across all specimens (r = max - min). " +
			"A property whose values are all equal normalizes to 0.",
		Positions: slices.Clone(algo.SamplePositions),
	}
	for _, c := range algo.Curves {
		model.Curves = append(model.Curves, schema.MetricsCurve{
			Strategy: c.Strategy,
			Formula:  c.Formula,
			Purpose:  c.Purpose,
			Samples:  algo.Sample(c.Strategy),
		})
	}
	return model
}
