package core

import (
	"maps"
	"strings"

	"github.com/google/uuid"
	"github.com/huangsam/analyzer/schema"
)

// PropertyDraft is an owned copy of a property. Edits to it never touch the
// project until CommitProperty succeeds.
type PropertyDraft struct {
	schema.Property
	original string
}

// Original returns the name of the property the draft was taken from.
func (d *PropertyDraft) Original() string { return d.original }

// SpecimenDraft is an owned copy of a specimen.
type SpecimenDraft struct {
	Name   string
	Values map[string]schema.Value
	id     uuid.UUID
}

// ID returns the ID of the specimen the draft was taken from.
func (d *SpecimenDraft) ID() uuid.UUID { return d.id }

// EditProperty returns a draft copy of the named property.
func (p *Project) EditProperty(name string) (*PropertyDraft, error) {
	prop, ok := p.Property(name)
	if !ok {
		return nil, &NotFoundError{Kind: "property", Name: name}
	}
	return &PropertyDraft{Property: prop.Clone(), original: prop.Name}, nil
}

// CommitProperty copies a validated draft back. A rename and a retype in the
// same draft are checked together and either both apply or neither does.
func (p *Project) CommitProperty(d *PropertyDraft) error {
	i := p.propertyIndex(d.original)
	if i < 0 {
		return &NotFoundError{Kind: "property", Name: d.original}
	}
	next := d.Property
	if err := validateProperty(&next); err != nil {
		return err
	}
	current := p.properties[i]
	renamed := next.Name != current.Name
	retyped := next.Type != current.Type

	if renamed {
		if err := p.checkRename(current.Name, next.Name); err != nil {
			return err
		}
	}
	var converted map[uuid.UUID]schema.Value
	if retyped {
		var err error
		if converted, err = p.convertColumn(current, next.Type); err != nil {
			return err
		}
	}
	if !renamed && !retyped && next.Weight == current.Weight && next.Strategy == current.Strategy {
		return nil
	}

	if retyped {
		p.applyRetype(i, next.Type, converted)
	}
	if renamed {
		p.applyRename(i, next.Name)
	}
	p.properties[i].Weight = next.Weight
	p.properties[i].Strategy = next.Strategy
	d.original = next.Name
	return p.markChanged()
}

// EditSpecimen returns a draft copy of the specimen with the given ID.
func (p *Project) EditSpecimen(id uuid.UUID) (*SpecimenDraft, error) {
	s, ok := p.Specimen(id)
	if !ok {
		return nil, &NotFoundError{Kind: "specimen", Name: id.String()}
	}
	return &SpecimenDraft{Name: s.Name, Values: maps.Clone(s.Values), id: s.ID}, nil
}

// CommitSpecimen copies a draft back. Values are converted to their property
// types; unknown keys fail the commit and keys absent from the draft keep
// their live value.
func (p *Project) CommitSpecimen(d *SpecimenDraft) error {
	i := p.specimenIndex(d.id)
	if i < 0 {
		return &NotFoundError{Kind: "specimen", Name: d.id.String()}
	}
	s := p.specimens[i]
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ErrSpecimenNameRequired
	}
	coerced, err := p.coerceValues(name, d.Values)
	if err != nil {
		return err
	}
	changed := name != s.Name
	for k, v := range coerced {
		if old, ok := s.Values[k]; !ok || !old.Equal(v) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	s.Name = name
	maps.Copy(s.Values, coerced)
	return p.markChanged()
}
