package schema

import "time"

// RankingResult is the ranked view of a project handed to the writers.
type RankingResult struct {
	Project    string           `json:"project"`
	Path       string           `json:"path"`
	Properties []Property       `json:"properties"`
	WeightSum  int              `json:"weight_sum"`
	Total      int              `json:"total"` // Specimen count before any limit
	Rows       []RankedSpecimen `json:"rows"`
	// PreviousAt is when the snapshot used for rank deltas was taken.
	PreviousAt *time.Time `json:"previous_at,omitempty"`
}
