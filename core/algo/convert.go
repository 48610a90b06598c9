package algo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/analyzer/schema"
)

// ErrNoWeight is returned when the scoring-eligible weights sum to zero.
var ErrNoWeight = errors.New("weight sum is zero")

// ConversionError reports a value that cannot be represented in another property type.
type ConversionError struct {
	From  schema.PropertyType
	To    schema.PropertyType
	Value schema.Value
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s value %q to %s", e.From, e.Value.String(), e.To)
}

// CoercionError reports a stored value that cannot be read as a number while scoring.
type CoercionError struct {
	Property string
	Specimen string
	Value    schema.Value
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("property %q of specimen %q holds non-numeric value %q", e.Property, e.Specimen, e.Value.String())
}

// TryConvert converts a value held by a property of type from into type to.
// The value's own kind wins over from when they disagree, so stale data still converts.
func TryConvert(from, to schema.PropertyType, v schema.Value) (schema.Value, error) {
	if v.Kind() != from {
		from = v.Kind()
	}
	if from == to {
		return v, nil
	}
	fail := &ConversionError{From: from, To: to, Value: v}

	switch to {
	case schema.TextType:
		return schema.TextValue(v.String()), nil

	case schema.DoubleType:
		switch from {
		case schema.BooleanType:
			return schema.NumberValue(boolToFloat(v.Bool())), nil
		default:
			f, err := parseNumber(v.Text())
			if err != nil {
				return schema.Value{}, fail
			}
			return schema.NumberValue(f), nil
		}

	case schema.BooleanType:
		switch from {
		case schema.DoubleType:
			return schema.BoolValue(v.Number() != 0), nil
		default:
			b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v.Text())))
			if err != nil {
				return schema.Value{}, fail
			}
			return schema.BoolValue(b), nil
		}
	}
	return schema.Value{}, fail
}

// ToNumber coerces a value for scoring. Booleans map to 1 and 0; text must parse.
func ToNumber(v schema.Value) (float64, error) {
	switch v.Kind() {
	case schema.DoubleType:
		return v.Number(), nil
	case schema.BooleanType:
		return boolToFloat(v.Bool()), nil
	default:
		return parseNumber(v.Text())
	}
}

// parseNumber parses with invariant formatting; surrounding space is ignored.
// NaN and infinities are rejected since they cannot be ranked.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return f, nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
