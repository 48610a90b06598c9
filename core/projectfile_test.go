package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyProject = `{
  "name": "Cars",
  "properties": [
    {"name": "speed", "weight": 2, "type": "Double", "normalizationStrategy": "Max"},
    {"name": "price", "weight": 1, "type": "Double", "normalizationStrategy": "InverseMax"},
    {"name": "notes", "weight": 0, "type": "Text"}
  ],
  "specimens": [
    {"name": "A", "properties": {"speed": 10, "price": "100", "notes": "old", "color": "red"}},
    {"name": "B", "properties": {"speed": 20}}
  ],
  "windowState": "Maximized"
}`

func TestDecodeProject_Legacy(t *testing.T) {
	p, err := DecodeProject([]byte(legacyProject), JSONFormat, "cars.asproj")
	require.NoError(t, err)

	assert.Equal(t, "Cars", p.Name())
	assert.Equal(t, "cars.asproj", p.Path())
	assert.False(t, p.IsDirty())

	price, ok := p.Property("price")
	require.True(t, ok)
	assert.Equal(t, schema.MinStrategy, price.Strategy)

	notes, _ := p.Property("notes")
	assert.Equal(t, schema.MaxStrategy, notes.Strategy)

	a := p.FindSpecimens("A")[0]
	v, _ := a.Value("price")
	assert.True(t, schema.NumberValue(100).Equal(v), "text is converted to the declared type")
	_, ok = a.Value("color")
	assert.False(t, ok, "undeclared values are dropped")

	b := p.FindSpecimens("B")[0]
	v, ok = b.Value("price")
	require.True(t, ok)
	assert.True(t, schema.NumberValue(0).Equal(v), "missing values are seeded")

	require.Len(t, p.Datasets(), 2)
	assert.Equal(t, "B", p.Datasets()[0].Name())
}

func TestDecodeProject_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"name": "x", "properties": [`},
		{"missing name", `{"properties": []}`},
		{"duplicate property", `{"name": "x", "properties": [{"name": "a", "type": "Double"}, {"name": "a", "type": "Text"}]}`},
		{"bad type", `{"name": "x", "properties": [{"name": "a", "type": "Integer"}]}`},
		{"bad strategy", `{"name": "x", "properties": [{"name": "a", "type": "Double", "normalizationStrategy": "Up"}]}`},
		{"bad value", `{"name": "x", "properties": [{"name": "a", "type": "Double"}], "specimens": [{"name": "s", "properties": {"a": "fast"}}]}`},
		{"null value", `{"name": "x", "properties": [{"name": "a", "type": "Double"}], "specimens": [{"name": "s", "properties": {"a": null}}]}`},
		{"null specimen", `{"name": "x", "specimens": [null]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeProject([]byte(tt.data), JSONFormat, "bad.asproj")
			assert.Nil(t, p)
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, "bad.asproj", loadErr.Path)
			assert.True(t, IsLoadError(err))
		})
	}
}

func TestDecodeProject_YAML(t *testing.T) {
	data := `
name: Cars
properties:
  - name: speed
    weight: 1
    type: Double
    normalizationStrategy: QuartMax
  - name: safe
    weight: 1
    type: Boolean
specimens:
  - name: A
    properties: {speed: 10, safe: true}
  - name: B
    properties: {speed: 20, safe: false}
`
	p, err := DecodeProject([]byte(data), YAMLFormat, "cars.yaml")
	require.NoError(t, err)
	datasets := p.Datasets()
	require.Len(t, datasets, 2)
	assert.InDelta(t, 0.5, datasets[0].Value, 1e-9)
	assert.InDelta(t, 0.5, datasets[1].Value, 1e-9)
	assert.Equal(t, "A", datasets[0].Name())
}

func TestProject_SaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cars.asproj", "cars.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			p, a, _ := speedProject(t, schema.MaxStrategy, 10, 20)
			require.NoError(t, p.AddProperty(schema.Property{Name: "notes", Weight: 0, Type: schema.TextType}))
			require.NoError(t, p.SetSpecimenValue(a.ID, "notes", schema.TextValue("quiet")))
			assert.True(t, p.IsDirty())

			var fields []ChangeField
			p.Subscribe(func(c Change) { fields = append(fields, c.Field) })
			require.NoError(t, p.Save(path))
			assert.False(t, p.IsDirty())
			assert.Equal(t, path, p.Path())
			assert.Contains(t, fields, PathChanged)
			assert.Contains(t, fields, DirtyChanged)

			loaded, err := OpenProject(path)
			require.NoError(t, err)
			assert.Equal(t, p.Properties(), loaded.Properties())
			require.Len(t, loaded.Specimens(), 2)
			for i, s := range loaded.Specimens() {
				assert.Equal(t, p.Specimens()[i].Name, s.Name)
				assert.Equal(t, p.Specimens()[i].Values, s.Values)
			}
			for i, d := range loaded.Datasets() {
				assert.Equal(t, p.Datasets()[i].Value, d.Value)
				assert.Equal(t, p.Datasets()[i].Rank, d.Rank)
			}
		})
	}
}

func TestProject_SaveWithoutPath(t *testing.T) {
	p, err := NewProject("unsaved")
	require.NoError(t, err)
	assert.ErrorIs(t, p.Save(""), ErrNoPath)

	path := filepath.Join(t.TempDir(), "new.asproj")
	p, err = NewProjectAt("fresh", path)
	require.NoError(t, err)
	assert.True(t, p.IsDirty())
	require.NoError(t, p.Save(""))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenProject_Missing(t *testing.T) {
	p, err := OpenProject(filepath.Join(t.TempDir(), "none.asproj"))
	assert.Nil(t, p)
	assert.True(t, IsLoadError(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, YAMLFormat, FormatFor("a.YML"))
	assert.Equal(t, YAMLFormat, FormatFor("a.yaml"))
	assert.Equal(t, JSONFormat, FormatFor("a.asproj"))
	assert.Equal(t, JSONFormat, FormatFor("a.json"))
}
