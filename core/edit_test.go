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

func TestExecuteNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bikes.asproj")

	p, err := ExecuteNew("bikes", path)
	require.NoError(t, err)
	assert.False(t, p.IsDirty())
	assert.Equal(t, "bikes ("+path+")", p.Title())

	reopened, err := OpenProject(path)
	require.NoError(t, err)
	assert.Equal(t, "bikes", reopened.Name())
	assert.Empty(t, reopened.Properties())

	_, err = ExecuteNew("bikes", path)
	assert.Error(t, err)

	_, err = ExecuteNew("bikes", "")
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestEditProject(t *testing.T) {
	path := writeCarsProject(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = EditProject(path, func(p *Project) error {
		require.NoError(t, p.SetPropertyWeight("speed", 10))
		return errors.New("abort")
	})
	require.Error(t, err)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	p, err := EditProject(path, func(p *Project) error {
		return p.RenameProperty("speed", "velocity")
	})
	require.NoError(t, err)
	assert.False(t, p.IsDirty())

	reopened, err := OpenProject(path)
	require.NoError(t, err)
	_, ok := reopened.Property("velocity")
	assert.True(t, ok)

	_, err = EditProject(path, func(p *Project) error {
		return p.RenameProperty("velocity", "cost")
	})
	var conflict *RenameConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestResolveSpecimen(t *testing.T) {
	p, err := NewProject("dupes")
	require.NoError(t, err)
	first, err := p.AddSpecimen("Twin", nil)
	require.NoError(t, err)
	second, err := p.AddSpecimen("Twin", nil)
	require.NoError(t, err)
	solo, err := p.AddSpecimen("Solo", nil)
	require.NoError(t, err)

	got, err := ResolveSpecimen(p, "Solo", 0)
	require.NoError(t, err)
	assert.Equal(t, solo.ID, got.ID)

	_, err = ResolveSpecimen(p, "Twin", 0)
	var ambiguous *AmbiguousSpecimenError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 2, ambiguous.Count)

	got, err = ResolveSpecimen(p, "Twin", 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	got, err = ResolveSpecimen(p, "Twin", 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	var notFound *NotFoundError
	_, err = ResolveSpecimen(p, "Twin", 3)
	assert.ErrorAs(t, err, &notFound)
	_, err = ResolveSpecimen(p, "Ghost", 0)
	assert.ErrorAs(t, err, &notFound)
}

func TestParseAssignments(t *testing.T) {
	p, err := OpenProject(writeCarsProject(t))
	require.NoError(t, err)
	require.NoError(t, p.AddProperty(schema.Property{Name: "electric", Type: schema.BooleanType, Weight: 1}))

	values, err := ParseAssignments(p, []string{"speed=120.5", "notes=a=b", "electric=true"})
	require.NoError(t, err)
	assert.Equal(t, schema.NumberValue(120.5), values["speed"])
	assert.Equal(t, schema.TextValue("a=b"), values["notes"])
	assert.Equal(t, schema.BoolValue(true), values["electric"])

	_, err = ParseAssignments(p, []string{"speed"})
	assert.Error(t, err)

	_, err = ParseAssignments(p, []string{"ghost=1"})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = ParseAssignments(p, []string{"speed=fast"})
	var valueErr *ValueError
	assert.ErrorAs(t, err, &valueErr)
}
