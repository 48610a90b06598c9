package algo

import (
	"github.com/huangsam/analyzer/schema"
)

// Contribution is one property's share of a specimen score.
type Contribution struct {
	Property   string
	Normalized float64 // In [0, 1]
	Weight     int
}

// Weighted returns the normalized value multiplied by the weight.
func (c Contribution) Weighted() float64 {
	return c.Normalized * float64(c.Weight)
}

// Scorer holds the per-property value distributions for one consistent
// snapshot of specimens and properties.
type Scorer struct {
	properties []schema.Property
	columns    map[string][]float64
}

// NewScorer coerces every scoring-eligible value once. It fails with a
// *CoercionError when any stored value cannot be read as a number.
func NewScorer(specimens []*schema.Specimen, properties []schema.Property) (*Scorer, error) {
	s := &Scorer{
		properties: properties,
		columns:    make(map[string][]float64, len(properties)),
	}
	for _, p := range properties {
		if !p.Type.Scores() {
			continue
		}
		var column []float64
		for _, sp := range specimens {
			raw, ok := sp.Value(p.Name)
			if !ok {
				continue
			}
			f, err := ToNumber(raw)
			if err != nil {
				return nil, &CoercionError{Property: p.Name, Specimen: sp.Name, Value: raw}
			}
			column = append(column, f)
		}
		s.columns[p.Name] = column
	}
	return s, nil
}

// Score computes the weighted aggregate for one specimen along with the
// per-property contributions. Properties the specimen does not define are skipped.
// When the included weights sum to zero, ErrNoWeight is returned with a zero score.
func (s *Scorer) Score(specimen *schema.Specimen) (float64, []Contribution, error) {
	var (
		contributions []Contribution
		sum           float64
		weightSum     int
	)
	for _, p := range s.properties {
		if !p.Type.Scores() {
			continue
		}
		raw, ok := specimen.Value(p.Name)
		if !ok {
			continue
		}
		v, err := ToNumber(raw)
		if err != nil {
			return 0, nil, &CoercionError{Property: p.Name, Specimen: specimen.Name, Value: raw}
		}
		c := Contribution{
			Property:   p.Name,
			Normalized: Normalize(p.Strategy, v, s.columns[p.Name]),
			Weight:     p.Weight,
		}
		contributions = append(contributions, c)
		sum += c.Weighted()
		weightSum += p.Weight
	}
	if weightSum == 0 {
		return 0, contributions, ErrNoWeight
	}
	return sum / float64(weightSum), contributions, nil
}

// ScoreSpecimen computes the weighted aggregate score of specimen against all
// specimens and properties.
func ScoreSpecimen(specimen *schema.Specimen, specimens []*schema.Specimen, properties []schema.Property) (float64, error) {
	scorer, err := NewScorer(specimens, properties)
	if err != nil {
		return 0, err
	}
	score, _, err := scorer.Score(specimen)
	return score, err
}
