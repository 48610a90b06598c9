// Package schema has models and constants for all parts of analyzer.
package schema

import (
	"maps"

	"github.com/google/uuid"
)

// Property describes one scoring dimension of a project.
type Property struct {
	Name     string                `json:"name" yaml:"name"`                                   // Unique across the project
	Weight   int                   `json:"weight" yaml:"weight"`                               // Signed contribution weight
	Type     PropertyType          `json:"type" yaml:"type"`                                   // Text properties never score
	Strategy NormalizationStrategy `json:"normalizationStrategy" yaml:"normalizationStrategy"` // Curve used by Normalize
}

// ApplyDefaults fills the type and strategy left empty by older project files
// and migrates retired strategies.
func (p *Property) ApplyDefaults() {
	if p.Type == "" {
		p.Type = TextType
	}
	if p.Strategy == "" {
		p.Strategy = MaxStrategy
	}
	p.Strategy = p.Strategy.Migrate()
}

// DefaultValue returns the value seeded into specimens for this property.
func (p Property) DefaultValue() Value {
	return p.Type.DefaultValue()
}

// Clone returns a copy of the property.
func (p Property) Clone() Property {
	return p
}

// Specimen is a named item evaluated against the project properties.
// ID is assigned at runtime and is never persisted.
type Specimen struct {
	ID     uuid.UUID        `json:"-" yaml:"-"`
	Name   string           `json:"name" yaml:"name"`
	Values map[string]Value `json:"properties" yaml:"properties"`
}

// NewSpecimen returns a specimen with a fresh ID and an empty value map.
func NewSpecimen(name string) *Specimen {
	return &Specimen{ID: uuid.New(), Name: name, Values: make(map[string]Value)}
}

// Clone returns a deep copy of the specimen that keeps the same ID.
func (s *Specimen) Clone() *Specimen {
	clone := &Specimen{ID: s.ID, Name: s.Name, Values: make(map[string]Value, len(s.Values))}
	maps.Copy(clone.Values, s.Values)
	return clone
}

// Value returns the value stored for a property and whether it is defined.
func (s *Specimen) Value(property string) (Value, bool) {
	v, ok := s.Values[property]
	return v, ok
}

// Dataset is the score record derived for one specimen.
type Dataset struct {
	Specimen *Specimen // Non-owning back reference
	Value    float64   // Weighted aggregate score; zero when Scored is false
	Scored   bool      // False when the weight sum is zero
	Rank     int       // 1 is the highest score
}

// Name returns the specimen name, used for tie-breaks.
func (d *Dataset) Name() string {
	if d.Specimen == nil {
		return ""
	}
	return d.Specimen.Name
}
