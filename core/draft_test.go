package core

import (
	"errors"
	"testing"

	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyDraft_EditsDoNotLeak(t *testing.T) {
	p, _, _ := speedProject(t, schema.MaxStrategy, 10, 20)

	draft, err := p.EditProperty("speed")
	require.NoError(t, err)
	draft.Name = "velocity"
	draft.Weight = 5

	live, ok := p.Property("speed")
	require.True(t, ok)
	assert.Equal(t, 1, live.Weight)
	assert.Equal(t, "speed", draft.Original())
}

func TestPropertyDraft_CommitRenameAndRetype(t *testing.T) {
	p, a, b := speedProject(t, schema.MaxStrategy, 10, 0)

	draft, err := p.EditProperty("speed")
	require.NoError(t, err)
	draft.Name = "fast"
	draft.Type = schema.BooleanType
	draft.Weight = 2
	require.NoError(t, p.CommitProperty(draft))

	prop, ok := p.Property("fast")
	require.True(t, ok)
	assert.Equal(t, schema.BooleanType, prop.Type)
	assert.Equal(t, 2, prop.Weight)
	assert.Equal(t, "fast", draft.Original())

	va, _ := a.Value("fast")
	vb, _ := b.Value("fast")
	assert.True(t, schema.BoolValue(true).Equal(va))
	assert.True(t, schema.BoolValue(false).Equal(vb))
	_, ok = a.Value("speed")
	assert.False(t, ok)
}

func TestPropertyDraft_CommitIsAtomic(t *testing.T) {
	p, err := NewProject("atomic")
	require.NoError(t, err)
	require.NoError(t, p.AddProperty(schema.Property{Name: "notes", Weight: 1, Type: schema.TextType}))
	a, err := p.AddSpecimen("A", map[string]schema.Value{"notes": schema.TextValue("n/a")})
	require.NoError(t, err)

	draft, err := p.EditProperty("notes")
	require.NoError(t, err)
	draft.Name = "score"
	draft.Type = schema.DoubleType

	var conflict *RetypeConflictError
	require.True(t, errors.As(p.CommitProperty(draft), &conflict))

	// Neither the rename nor the retype applied.
	prop, ok := p.Property("notes")
	require.True(t, ok)
	assert.Equal(t, schema.TextType, prop.Type)
	v, ok := a.Value("notes")
	require.True(t, ok)
	assert.True(t, schema.TextValue("n/a").Equal(v))
}

func TestPropertyDraft_CommitRenameConflict(t *testing.T) {
	p, _, _ := speedProject(t, schema.MaxStrategy, 10, 20)
	require.NoError(t, p.AddProperty(schema.Property{Name: "cost", Weight: 1, Type: schema.DoubleType}))

	draft, err := p.EditProperty("speed")
	require.NoError(t, err)
	draft.Name = "cost"
	draft.Weight = 9

	var conflict *RenameConflictError
	require.True(t, errors.As(p.CommitProperty(draft), &conflict))
	prop, _ := p.Property("speed")
	assert.Equal(t, 1, prop.Weight)
}

func TestSpecimenDraft_Commit(t *testing.T) {
	p, a, _ := speedProject(t, schema.MaxStrategy, 10, 20)

	draft, err := p.EditSpecimen(a.ID)
	require.NoError(t, err)
	draft.Name = "A2"
	draft.Values["speed"] = schema.NumberValue(40)

	// Live specimen is untouched until commit.
	assert.Equal(t, "A", a.Name)
	v, _ := a.Value("speed")
	assert.Equal(t, 10.0, v.Number())

	require.NoError(t, p.CommitSpecimen(draft))
	assert.Equal(t, "A2", a.Name)
	v, _ = a.Value("speed")
	assert.Equal(t, 40.0, v.Number())
	assert.Equal(t, 1, datasetFor(t, p, a.ID).Rank)
}

func TestSpecimenDraft_CommitRejectsBadValues(t *testing.T) {
	p, a, _ := speedProject(t, schema.MaxStrategy, 10, 20)

	draft, err := p.EditSpecimen(a.ID)
	require.NoError(t, err)
	draft.Values["speed"] = schema.TextValue("fast")
	var valueErr *ValueError
	assert.True(t, errors.As(p.CommitSpecimen(draft), &valueErr))

	draft, err = p.EditSpecimen(a.ID)
	require.NoError(t, err)
	draft.Values["range"] = schema.NumberValue(1)
	var notFound *NotFoundError
	assert.True(t, errors.As(p.CommitSpecimen(draft), &notFound))

	draft, err = p.EditSpecimen(a.ID)
	require.NoError(t, err)
	draft.Name = ""
	assert.ErrorIs(t, p.CommitSpecimen(draft), ErrSpecimenNameRequired)

	v, _ := a.Value("speed")
	assert.Equal(t, 10.0, v.Number())
	_, ok := a.Value("range")
	assert.False(t, ok)
}

func TestSpecimenDraft_RemovedSpecimen(t *testing.T) {
	p, a, _ := speedProject(t, schema.MaxStrategy, 10, 20)
	draft, err := p.EditSpecimen(a.ID)
	require.NoError(t, err)
	require.NoError(t, p.RemoveSpecimen(a.ID))

	var notFound *NotFoundError
	assert.True(t, errors.As(p.CommitSpecimen(draft), &notFound))
}
