package schema

import "time"

// Label thresholds on the [0, 1] score scale.
const (
	TopThreshold      = 0.8
	HighThreshold     = 0.6
	ModerateThreshold = 0.4
)

// RankedSpecimen adds presentation data to a Dataset.
type RankedSpecimen struct {
	Rank       int                `json:"rank"`
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Value      *float64           `json:"value"` // null when unscored
	Label      ScoreLabel         `json:"label"`
	RankDelta  *int               `json:"rank_delta,omitempty"` // positive means the specimen moved up
	Ambiguous  bool               `json:"ambiguous,omitempty"`  // name shared by several specimens, so no delta
	Normalized map[string]float64 `json:"normalized,omitempty"` // Per scoring property, in [0, 1]
	Properties map[string]Value   `json:"properties,omitempty"`
}

// SnapshotEntry is the persisted rank of one specimen.
type SnapshotEntry struct {
	Name   string  `json:"name"`
	Rank   int     `json:"rank"`
	Value  float64 `json:"value"`
	Scored bool    `json:"scored"`
}

// RankingSnapshot is the ranking of a project at one point in time.
type RankingSnapshot struct {
	Project string          `json:"project"`
	TakenAt time.Time       `json:"taken_at"`
	Entries []SnapshotEntry `json:"entries"`
}

// RankOf returns the rank recorded for a specimen name. Names that appear more
// than once are ambiguous and report false.
func (s RankingSnapshot) RankOf(name string) (int, bool) {
	rank, found := 0, false
	for _, e := range s.Entries {
		if e.Name != name {
			continue
		}
		if found {
			return 0, false
		}
		rank, found = e.Rank, true
	}
	return rank, found
}

// Contains reports whether any entry carries the name.
func (s RankingSnapshot) Contains(name string) bool {
	for _, e := range s.Entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// GetLabel returns a plain label for a score on the [0, 1] scale.
func GetLabel(score float64, scored bool) ScoreLabel {
	if !scored {
		return UnscoredLabel
	}
	switch {
	case score >= TopThreshold:
		return TopLabel
	case score >= HighThreshold:
		return HighLabel
	case score >= ModerateThreshold:
		return ModerateLabel
	default:
		return LowLabel
	}
}

// EnrichDatasets flattens ranked datasets into presentation rows.
func EnrichDatasets(datasets []*Dataset) []RankedSpecimen {
	output := make([]RankedSpecimen, len(datasets))
	for i, d := range datasets {
		row := RankedSpecimen{
			Rank:  d.Rank,
			Name:  d.Name(),
			Label: GetLabel(d.Value, d.Scored),
		}
		if d.Specimen != nil {
			row.ID = d.Specimen.ID.String()
		}
		if d.Scored {
			v := d.Value
			row.Value = &v
		}
		output[i] = row
	}
	return output
}

// ApplyDeltas sets RankDelta on every row whose name has an unambiguous rank in previous.
// Rows whose name was ranked before but is shared by several specimens are marked Ambiguous.
func ApplyDeltas(rows []RankedSpecimen, previous *RankingSnapshot) {
	if previous == nil {
		return
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Name]++
	}
	for i := range rows {
		before, ok := previous.RankOf(rows[i].Name)
		if !ok || counts[rows[i].Name] > 1 {
			rows[i].Ambiguous = previous.Contains(rows[i].Name)
			continue
		}
		delta := before - rows[i].Rank
		rows[i].RankDelta = &delta
	}
}
