package algo

import (
	"errors"
	"testing"

	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// specimen builds a test specimen from alternating name/value pairs.
func specimen(name string, kv ...any) *schema.Specimen {
	s := schema.NewSpecimen(name)
	for i := 0; i+1 < len(kv); i += 2 {
		key := kv[i].(string)
		switch v := kv[i+1].(type) {
		case int:
			s.Values[key] = schema.NumberValue(float64(v))
		case float64:
			s.Values[key] = schema.NumberValue(v)
		case bool:
			s.Values[key] = schema.BoolValue(v)
		case string:
			s.Values[key] = schema.TextValue(v)
		}
	}
	return s
}

func TestScoreSpecimen_SingleProperty(t *testing.T) {
	props := []schema.Property{{Name: "speed", Weight: 1, Type: schema.DoubleType, Strategy: schema.MaxStrategy}}
	a := specimen("A", "speed", 10)
	b := specimen("B", "speed", 20)
	all := []*schema.Specimen{a, b}

	scoreA, err := ScoreSpecimen(a, all, props)
	require.NoError(t, err)
	scoreB, err := ScoreSpecimen(b, all, props)
	require.NoError(t, err)

	assert.Equal(t, 0.0, scoreA)
	assert.Equal(t, 1.0, scoreB)
}

func TestScoreSpecimen_WeightedAverage(t *testing.T) {
	props := []schema.Property{
		{Name: "speed", Weight: 3, Type: schema.DoubleType, Strategy: schema.MaxStrategy},
		{Name: "cost", Weight: 1, Type: schema.DoubleType, Strategy: schema.MinStrategy},
		{Name: "safe", Weight: 2, Type: schema.BooleanType, Strategy: schema.MaxStrategy},
		{Name: "notes", Weight: 100, Type: schema.TextType, Strategy: schema.MaxStrategy},
	}
	a := specimen("A", "speed", 10, "cost", 5, "safe", true, "notes", "n/a")
	b := specimen("B", "speed", 30, "cost", 15, "safe", false, "notes", "")
	c := specimen("C", "speed", 20, "cost", 10, "safe", true, "notes", "")
	all := []*schema.Specimen{a, b, c}

	// C: speed 0.5*3 + cost 0.5*1 + safe 1*2 = 4 over weight 6.
	score, err := ScoreSpecimen(c, all, props)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/6.0, score, delta)

	// A: speed 0 + cost 1 + safe 2 = 3 over 6.
	score, err = ScoreSpecimen(a, all, props)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, delta)
}

func TestScoreSpecimen_SkipsUndefinedProperties(t *testing.T) {
	props := []schema.Property{
		{Name: "speed", Weight: 1, Type: schema.DoubleType, Strategy: schema.MaxStrategy},
		{Name: "range", Weight: 5, Type: schema.DoubleType, Strategy: schema.MaxStrategy},
	}
	a := specimen("A", "speed", 10)
	b := specimen("B", "speed", 20, "range", 1)
	c := specimen("C", "speed", 15, "range", 3)
	all := []*schema.Specimen{a, b, c}

	// A only defines speed, so range contributes neither value nor weight.
	score, err := ScoreSpecimen(a, all, props)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	// B: speed 1*1 + range 0*5 over 6.
	score, err = ScoreSpecimen(b, all, props)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6.0, score, delta)
}

func TestScoreSpecimen_ZeroWeightSum(t *testing.T) {
	tests := []struct {
		name  string
		props []schema.Property
	}{
		{"no properties", nil},
		{"only text", []schema.Property{{Name: "notes", Weight: 1, Type: schema.TextType}}},
		{"all zero weights", []schema.Property{{Name: "speed", Weight: 0, Type: schema.DoubleType}}},
		{"weights cancel", []schema.Property{
			{Name: "speed", Weight: 2, Type: schema.DoubleType},
			{Name: "cost", Weight: -2, Type: schema.DoubleType},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := specimen("A", "speed", 1, "cost", 2, "notes", "x")
			score, err := ScoreSpecimen(a, []*schema.Specimen{a}, tt.props)
			assert.ErrorIs(t, err, ErrNoWeight)
			assert.Equal(t, 0.0, score)
		})
	}
}

func TestScoreSpecimen_NumericTextIsCoerced(t *testing.T) {
	props := []schema.Property{{Name: "speed", Weight: 1, Type: schema.DoubleType, Strategy: schema.MaxStrategy}}
	a := specimen("A", "speed", "10")
	b := specimen("B", "speed", 20.0)

	score, err := ScoreSpecimen(a, []*schema.Specimen{a, b}, props)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestScoreSpecimen_CoercionFailure(t *testing.T) {
	props := []schema.Property{{Name: "speed", Weight: 1, Type: schema.DoubleType, Strategy: schema.MaxStrategy}}
	a := specimen("A", "speed", "fast")
	b := specimen("B", "speed", 20)

	_, err := ScoreSpecimen(b, []*schema.Specimen{a, b}, props)
	var coercion *CoercionError
	require.True(t, errors.As(err, &coercion))
	assert.Equal(t, "speed", coercion.Property)
	assert.Equal(t, "A", coercion.Specimen)
}

func TestScorer_Contributions(t *testing.T) {
	props := []schema.Property{
		{Name: "speed", Weight: 2, Type: schema.DoubleType, Strategy: schema.MaxStrategy},
		{Name: "safe", Weight: 1, Type: schema.BooleanType, Strategy: schema.MaxStrategy},
	}
	a := specimen("A", "speed", 10, "safe", true)
	b := specimen("B", "speed", 20, "safe", false)

	scorer, err := NewScorer([]*schema.Specimen{a, b}, props)
	require.NoError(t, err)

	score, contributions, err := scorer.Score(b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, score, delta)
	require.Len(t, contributions, 2)
	assert.Equal(t, "speed", contributions[0].Property)
	assert.Equal(t, 2.0, contributions[0].Weighted())
	assert.Equal(t, 0.0, contributions[1].Normalized)
}
