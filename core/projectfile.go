package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/analyzer/core/algo"
	"github.com/huangsam/analyzer/schema"
	"gopkg.in/yaml.v3"
)

// FileFormat is the encoding of a project file.
type FileFormat string

// Supported project file encodings.
const (
	JSONFormat FileFormat = "json"
	YAMLFormat FileFormat = "yaml"
)

// FormatFor picks the encoding from a file extension. Anything that is not
// YAML is read and written as JSON.
func FormatFor(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat
	default:
		return JSONFormat
	}
}

// projectFile is the persisted shape of a project.
type projectFile struct {
	Name       string             `json:"name" yaml:"name"`
	Properties []schema.Property  `json:"properties" yaml:"properties"`
	Specimens  []*schema.Specimen `json:"specimens" yaml:"specimens"`
}

// OpenProject reads and validates a project file. Any failure returns a nil
// project and a *LoadError.
func OpenProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return DecodeProject(data, FormatFor(path), path)
}

// DecodeProject builds a clean project from encoded data. The returned project
// is either fully valid and scored or nil.
func DecodeProject(data []byte, format FileFormat, path string) (*Project, error) {
	p, err := decodeProject(data, format, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return p, nil
}

func decodeProject(data []byte, format FileFormat, path string) (*Project, error) {
	var file projectFile
	switch format {
	case YAMLFormat:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	}

	p, err := NewProject(file.Name)
	if err != nil {
		return nil, err
	}
	p.path = path

	for _, prop := range file.Properties {
		if err := validateProperty(&prop); err != nil {
			return nil, err
		}
		if p.propertyIndex(prop.Name) >= 0 {
			return nil, &DuplicatePropertyError{Name: prop.Name}
		}
		p.properties = append(p.properties, prop)
	}

	for i, stored := range file.Specimens {
		if stored == nil {
			return nil, fmt.Errorf("specimen %d is empty", i)
		}
		s := schema.NewSpecimen(stored.Name)
		for _, prop := range p.properties {
			v, ok := stored.Values[prop.Name]
			if !ok {
				s.Values[prop.Name] = prop.DefaultValue()
				continue
			}
			nv, err := algo.TryConvert(prop.Type, prop.Type, v)
			if err != nil {
				return nil, &ValueError{Property: prop.Name, Specimen: stored.Name, Err: err}
			}
			s.Values[prop.Name] = nv
		}
		p.specimens = append(p.specimens, s)
	}

	if err := p.UpdateAnalysis(); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode serializes the project in the given format.
func (p *Project) Encode(format FileFormat) ([]byte, error) {
	file := projectFile{
		Name:       p.name,
		Properties: p.properties,
		Specimens:  p.specimens,
	}
	if file.Properties == nil {
		file.Properties = []schema.Property{}
	}
	if file.Specimens == nil {
		file.Specimens = []*schema.Specimen{}
	}
	switch format {
	case YAMLFormat:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(file, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Save writes the project to path, or to the current path when path is empty,
// and clears the dirty flag.
func (p *Project) Save(path string) error {
	if path == "" {
		path = p.path
	}
	if path == "" {
		return ErrNoPath
	}
	data, err := p.Encode(FormatFor(path))
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	p.setPath(path)
	p.setDirty(false)
	return nil
}

// IsLoadError reports whether err came from reading a project file.
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}
