package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/huangsam/analyzer/core/algo"
	"github.com/huangsam/analyzer/schema"
)

// AmbiguousSpecimenError reports a specimen name shared by several specimens
// when no index was given to pick one.
type AmbiguousSpecimenError struct {
	Name  string
	Count int
}

func (e *AmbiguousSpecimenError) Error() string {
	return fmt.Sprintf("%d specimens are named %q; pass an index between 1 and %d", e.Count, e.Name, e.Count)
}

// ExecuteNew creates an empty project at path. An existing file is never overwritten.
func ExecuteNew(name, path string) (*Project, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	p, err := NewProjectAt(name, path)
	if err != nil {
		return nil, err
	}
	if err := p.Save(""); err != nil {
		return nil, err
	}
	return p, nil
}

// EditProject opens the project at path, applies edit and saves the result
// when it changed. Nothing is written when edit fails.
func EditProject(path string, edit func(*Project) error) (*Project, error) {
	p, err := OpenProject(path)
	if err != nil {
		return nil, err
	}
	if err := edit(p); err != nil {
		return nil, err
	}
	if p.IsDirty() {
		if err := p.Save(""); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ResolveSpecimen finds a specimen by name. index is 1-based among specimens
// with that name in insertion order; 0 requires the name to be unique.
func ResolveSpecimen(p *Project, name string, index int) (*schema.Specimen, error) {
	matches := p.FindSpecimens(name)
	switch {
	case len(matches) == 0:
		return nil, &NotFoundError{Kind: "specimen", Name: name}
	case index > 0:
		if index > len(matches) {
			return nil, &NotFoundError{Kind: "specimen", Name: fmt.Sprintf("%s #%d", name, index)}
		}
		return matches[index-1], nil
	case len(matches) > 1:
		return nil, &AmbiguousSpecimenError{Name: name, Count: len(matches)}
	default:
		return matches[0], nil
	}
}

// ParseAssignments turns "property=value" arguments into typed values. Each
// raw value is read as text and converted to the declared property type.
func ParseAssignments(p *Project, args []string) (map[string]schema.Value, error) {
	values := make(map[string]schema.Value, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected property=value", arg)
		}
		prop, found := p.Property(name)
		if !found {
			return nil, &NotFoundError{Kind: "property", Name: name}
		}
		v, err := algo.TryConvert(schema.TextType, prop.Type, schema.TextValue(raw))
		if err != nil {
			return nil, &ValueError{Property: name, Err: err}
		}
		values[name] = v
	}
	return values, nil
}
