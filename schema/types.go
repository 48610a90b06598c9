package schema

import (
	"fmt"
	"strings"
)

// ParsePropertyType resolves a property type name case-insensitively.
func ParsePropertyType(s string) (PropertyType, error) {
	for _, t := range AllPropertyTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid property type '%s'. must be Text, Double, Boolean", s)
}

// DefaultValue returns the value seeded into specimens for a new property of this type.
func (t PropertyType) DefaultValue() Value {
	switch t {
	case DoubleType:
		return NumberValue(0)
	case BooleanType:
		return BoolValue(false)
	default:
		return TextValue("")
	}
}

// Scores reports whether properties of this type contribute to a specimen score.
func (t PropertyType) Scores() bool {
	return t == DoubleType || t == BooleanType
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PropertyType) UnmarshalText(b []byte) error {
	parsed, err := ParsePropertyType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseStrategy resolves a normalization strategy name case-insensitively.
// The legacy InverseMax name is accepted; callers should Migrate the result.
func ParseStrategy(s string) (NormalizationStrategy, error) {
	trimmed := strings.TrimSpace(s)
	for strategy := range ValidStrategies {
		if strings.EqualFold(string(strategy), trimmed) {
			return strategy, nil
		}
	}
	return "", fmt.Errorf("invalid normalization strategy '%s'. must be Max, Min, QuartMax, InverseQuartMax, QuartMin, InverseQuartMin", s)
}

// Migrate maps retired strategies onto their replacement.
func (s NormalizationStrategy) Migrate() NormalizationStrategy {
	if s == LegacyInverseMaxStrategy {
		return MinStrategy
	}
	return s
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *NormalizationStrategy) UnmarshalText(b []byte) error {
	parsed, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
