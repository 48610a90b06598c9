package core

import (
	"maps"
	"slices"
	"sort"

	"github.com/huangsam/analyzer/core/algo"
	"github.com/huangsam/analyzer/schema"
)

// BuildRankingResult flattens the ranked datasets of p into presentation rows.
// Rows carry normalized values per scoring property and, when previous is
// given, the rank movement since then. A positive limit keeps the top rows.
func BuildRankingResult(p *Project, limit int, previous *schema.RankingSnapshot) schema.RankingResult {
	datasets := p.Datasets()
	rows := schema.EnrichDatasets(datasets)
	for i, d := range datasets {
		rows[i].Properties = maps.Clone(d.Specimen.Values)
		contribs := p.Contributions(d.Specimen.ID)
		if len(contribs) == 0 {
			continue
		}
		rows[i].Normalized = make(map[string]float64, len(contribs))
		for _, c := range contribs {
			rows[i].Normalized[c.Property] = c.Normalized
		}
	}
	schema.ApplyDeltas(rows, previous)

	result := schema.RankingResult{
		Project:    p.Name(),
		Path:       p.Path(),
		Properties: p.Properties(),
		WeightSum:  p.WeightSum(),
		Total:      len(rows),
		Rows:       limitRows(rows, limit),
	}
	if previous != nil {
		at := previous.TakenAt
		result.PreviousAt = &at
	}
	return result
}

// limitRows keeps at most limit rows; zero or less keeps all of them.
func limitRows(rows []schema.RankedSpecimen, limit int) []schema.RankedSpecimen {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// ApplyWeightOverrides sets weights by property name on a loaded project.
// Names the project does not define are returned sorted instead of failing,
// so one config file can serve several projects.
func ApplyWeightOverrides(p *Project, overrides map[string]int) ([]string, error) {
	var skipped []string
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		if _, ok := p.Property(name); !ok {
			skipped = append(skipped, name)
			continue
		}
		if err := p.SetPropertyWeight(name, overrides[name]); err != nil {
			return nil, err
		}
	}
	return skipped, nil
}

// TopSpecimens returns the best n ranked datasets of p.
func TopSpecimens(p *Project, n int) []*schema.Dataset {
	return algo.TopN(p.Datasets(), n)
}

// ScoreSummary returns the lowest and mean score over scored datasets.
func ScoreSummary(datasets []*schema.Dataset) (lowest, mean float64, scored int) {
	var values []float64
	for _, d := range datasets {
		if d.Scored {
			values = append(values, d.Value)
		}
	}
	if len(values) == 0 {
		return 0, 0, 0
	}
	sort.Float64s(values)
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return values[0], sum / float64(len(values)), len(values)
}
