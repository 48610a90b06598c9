package core

import (
	"github.com/huangsam/analyzer/schema"
)

// BuildCheckResult compares every scored specimen of p against threshold.
// Unscored specimens are neither failures nor passes; a project with nothing
// scored passes trivially.
func BuildCheckResult(p *Project, threshold float64) schema.CheckResult {
	datasets := p.Datasets()
	lowest, mean, scored := ScoreSummary(datasets)
	result := schema.CheckResult{
		Project:        p.Name(),
		Threshold:      threshold,
		TotalSpecimens: len(datasets),
		ScoredCount:    scored,
		MinScore:       lowest,
		AvgScore:       mean,
		Failed:         []schema.CheckFailedSpecimen{},
	}
	for _, d := range datasets {
		if d.Scored && d.Value < threshold {
			result.Failed = append(result.Failed, schema.CheckFailedSpecimen{Rank: d.Rank, Name: d.Name(), Score: d.Value})
		}
	}
	result.Passed = len(result.Failed) == 0
	return result
}
