package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/huangsam/analyzer/core/algo"
	"github.com/huangsam/analyzer/schema"
)

// validateProperty normalizes and checks a property definition.
func validateProperty(prop *schema.Property) error {
	prop.Name = strings.TrimSpace(prop.Name)
	if prop.Name == "" {
		return &InvalidPropertyError{Name: prop.Name, Reason: "name is required"}
	}
	prop.ApplyDefaults()
	if _, ok := schema.ValidPropertyTypes[prop.Type]; !ok {
		return &InvalidPropertyError{Name: prop.Name, Reason: fmt.Sprintf("unknown type %q", prop.Type)}
	}
	if _, ok := schema.ValidStrategies[prop.Strategy]; !ok {
		return &InvalidPropertyError{Name: prop.Name, Reason: fmt.Sprintf("unknown normalization strategy %q", prop.Strategy)}
	}
	return nil
}

// AddProperty appends a property and seeds every specimen with its default value.
func (p *Project) AddProperty(prop schema.Property) error {
	if err := validateProperty(&prop); err != nil {
		return err
	}
	if p.propertyIndex(prop.Name) >= 0 {
		return &DuplicatePropertyError{Name: prop.Name}
	}
	p.properties = append(p.properties, prop)
	for _, s := range p.specimens {
		s.Values[prop.Name] = prop.DefaultValue()
	}
	return p.markChanged()
}

// RemoveProperty deletes a property and its value from every specimen.
func (p *Project) RemoveProperty(name string) error {
	i := p.propertyIndex(name)
	if i < 0 {
		return &NotFoundError{Kind: "property", Name: name}
	}
	p.properties = slices.Delete(p.properties, i, i+1)
	for _, s := range p.specimens {
		delete(s.Values, name)
	}
	return p.markChanged()
}

// RenameProperty moves every specimen value from oldName to newName. Nothing
// changes when another property or any specimen already uses newName.
func (p *Project) RenameProperty(oldName, newName string) error {
	i := p.propertyIndex(oldName)
	if i < 0 {
		return &NotFoundError{Kind: "property", Name: oldName}
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return &InvalidPropertyError{Name: oldName, Reason: "name is required"}
	}
	if newName == oldName {
		return nil
	}
	if err := p.checkRename(oldName, newName); err != nil {
		return err
	}
	p.applyRename(i, newName)
	return p.markChanged()
}

func (p *Project) checkRename(oldName, newName string) error {
	if p.propertyIndex(newName) >= 0 {
		return &RenameConflictError{OldName: oldName, NewName: newName}
	}
	for _, s := range p.specimens {
		if _, ok := s.Values[newName]; ok {
			return &RenameConflictError{OldName: oldName, NewName: newName, Specimen: s.Name}
		}
	}
	return nil
}

func (p *Project) applyRename(i int, newName string) {
	oldName := p.properties[i].Name
	p.properties[i].Name = newName
	for _, s := range p.specimens {
		if v, ok := s.Values[oldName]; ok {
			s.Values[newName] = v
			delete(s.Values, oldName)
		}
	}
}

// RetypeProperty converts every specimen value to newType. When any one value
// cannot be converted, no specimen and not the property itself is modified.
func (p *Project) RetypeProperty(name string, newType schema.PropertyType) error {
	i := p.propertyIndex(name)
	if i < 0 {
		return &NotFoundError{Kind: "property", Name: name}
	}
	if _, ok := schema.ValidPropertyTypes[newType]; !ok {
		return &InvalidPropertyError{Name: name, Reason: fmt.Sprintf("unknown type %q", newType)}
	}
	if p.properties[i].Type == newType {
		return nil
	}
	converted, err := p.convertColumn(p.properties[i], newType)
	if err != nil {
		return err
	}
	p.applyRetype(i, newType, converted)
	return p.markChanged()
}

// convertColumn converts one property's values without touching live state.
func (p *Project) convertColumn(prop schema.Property, newType schema.PropertyType) (map[uuid.UUID]schema.Value, error) {
	converted := make(map[uuid.UUID]schema.Value, len(p.specimens))
	for _, s := range p.specimens {
		v, ok := s.Values[prop.Name]
		if !ok {
			converted[s.ID] = newType.DefaultValue()
			continue
		}
		nv, err := algo.TryConvert(prop.Type, newType, v)
		if err != nil {
			return nil, &RetypeConflictError{
				Property: prop.Name,
				Specimen: s.Name,
				OldType:  prop.Type,
				NewType:  newType,
				Err:      err,
			}
		}
		converted[s.ID] = nv
	}
	return converted, nil
}

func (p *Project) applyRetype(i int, newType schema.PropertyType, converted map[uuid.UUID]schema.Value) {
	p.properties[i].Type = newType
	name := p.properties[i].Name
	for _, s := range p.specimens {
		s.Values[name] = converted[s.ID]
	}
}

// SetPropertyWeight changes the weight of a property.
func (p *Project) SetPropertyWeight(name string, weight int) error {
	i := p.propertyIndex(name)
	if i < 0 {
		return &NotFoundError{Kind: "property", Name: name}
	}
	if p.properties[i].Weight == weight {
		return nil
	}
	p.properties[i].Weight = weight
	return p.markChanged()
}

// SetPropertyStrategy changes the normalization strategy of a property.
func (p *Project) SetPropertyStrategy(name string, strategy schema.NormalizationStrategy) error {
	i := p.propertyIndex(name)
	if i < 0 {
		return &NotFoundError{Kind: "property", Name: name}
	}
	if _, ok := schema.ValidStrategies[strategy]; !ok {
		return &InvalidPropertyError{Name: name, Reason: fmt.Sprintf("unknown normalization strategy %q", strategy)}
	}
	strategy = strategy.Migrate()
	if p.properties[i].Strategy == strategy {
		return nil
	}
	p.properties[i].Strategy = strategy
	return p.markChanged()
}

// coerceValue converts an incoming value to the declared type of prop.
func coerceValue(prop schema.Property, specimen string, v schema.Value) (schema.Value, error) {
	nv, err := algo.TryConvert(v.Kind(), prop.Type, v)
	if err != nil {
		return schema.Value{}, &ValueError{Property: prop.Name, Specimen: specimen, Err: err}
	}
	return nv, nil
}

// coerceValues checks incoming values against the property list. Unknown keys
// are rejected.
func (p *Project) coerceValues(specimen string, values map[string]schema.Value) (map[string]schema.Value, error) {
	out := make(map[string]schema.Value, len(values))
	for name, v := range values {
		i := p.propertyIndex(name)
		if i < 0 {
			return nil, &NotFoundError{Kind: "property", Name: name}
		}
		nv, err := coerceValue(p.properties[i], specimen, v)
		if err != nil {
			return nil, err
		}
		out[name] = nv
	}
	return out, nil
}

// AddSpecimen appends a specimen seeded with every property default and then
// overlaid with values. Names need not be unique.
func (p *Project) AddSpecimen(name string, values map[string]schema.Value) (*schema.Specimen, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSpecimenNameRequired
	}
	coerced, err := p.coerceValues(name, values)
	if err != nil {
		return nil, err
	}
	s := schema.NewSpecimen(name)
	for _, prop := range p.properties {
		s.Values[prop.Name] = prop.DefaultValue()
	}
	for k, v := range coerced {
		s.Values[k] = v
	}
	p.specimens = append(p.specimens, s)
	return s, p.markChanged()
}

// RemoveSpecimen deletes a specimen and, through rescoring, its dataset.
func (p *Project) RemoveSpecimen(id uuid.UUID) error {
	i := p.specimenIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "specimen", Name: id.String()}
	}
	p.specimens = slices.Delete(p.specimens, i, i+1)
	return p.markChanged()
}

// RenameSpecimen changes a specimen's display name.
func (p *Project) RenameSpecimen(id uuid.UUID, name string) error {
	i := p.specimenIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "specimen", Name: id.String()}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrSpecimenNameRequired
	}
	if p.specimens[i].Name == name {
		return nil
	}
	p.specimens[i].Name = name
	return p.markChanged()
}

// SetSpecimenValue stores one value, converted to the property type.
func (p *Project) SetSpecimenValue(id uuid.UUID, property string, v schema.Value) error {
	i := p.specimenIndex(id)
	if i < 0 {
		return &NotFoundError{Kind: "specimen", Name: id.String()}
	}
	j := p.propertyIndex(property)
	if j < 0 {
		return &NotFoundError{Kind: "property", Name: property}
	}
	s := p.specimens[i]
	nv, err := coerceValue(p.properties[j], s.Name, v)
	if err != nil {
		return err
	}
	if old, ok := s.Values[property]; ok && old.Equal(nv) {
		return nil
	}
	s.Values[property] = nv
	return p.markChanged()
}
