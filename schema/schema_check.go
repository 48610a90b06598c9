package schema

// CheckResult holds the result of a score threshold check.
type CheckResult struct {
	Passed         bool                  `json:"passed"`
	Project        string                `json:"project"`
	Threshold      float64               `json:"threshold"`
	TotalSpecimens int                   `json:"total_specimens"`
	ScoredCount    int                   `json:"scored_count"`
	MinScore       float64               `json:"min_score"`
	AvgScore       float64               `json:"avg_score"`
	Failed         []CheckFailedSpecimen `json:"failed"`
}

// CheckFailedSpecimen is a scored specimen below the threshold.
type CheckFailedSpecimen struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}
