package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Value is a property value held by a specimen. It is exactly one of
// Text, Number or Bool; the zero Value is Text("").
type Value struct {
	kind PropertyType
	text string
	num  float64
	flag bool
}

// TextValue returns a Text value.
func TextValue(s string) Value { return Value{kind: TextType, text: s} }

// NumberValue returns a Number value.
func NumberValue(f float64) Value { return Value{kind: DoubleType, num: f} }

// BoolValue returns a Bool value.
func BoolValue(b bool) Value { return Value{kind: BooleanType, flag: b} }

// Kind returns the property type this value is shaped for.
func (v Value) Kind() PropertyType {
	if v.kind == "" {
		return TextType
	}
	return v.kind
}

// Text returns the string payload. It is empty unless Kind is TextType.
func (v Value) Text() string { return v.text }

// Number returns the float payload. It is zero unless Kind is DoubleType.
func (v Value) Number() float64 { return v.num }

// Bool returns the boolean payload. It is false unless Kind is BooleanType.
func (v Value) Bool() bool { return v.flag }

// String formats the value with invariant formatting so that it round-trips
// through the parsers used by conversion.
func (v Value) String() string {
	switch v.Kind() {
	case DoubleType:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case BooleanType:
		return strconv.FormatBool(v.flag)
	default:
		return v.text
	}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case DoubleType:
		return v.num == other.num
	case BooleanType:
		return v.flag == other.flag
	default:
		return v.text == other.text
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case DoubleType:
		return json.Marshal(v.num)
	case BooleanType:
		return json.Marshal(v.flag)
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON implements json.Unmarshaler. The variant is chosen from the JSON token.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case 'n':
		return fmt.Errorf("null is not a valid property value")
	case '{', '[':
		return fmt.Errorf("property value must be a string, number or boolean: %s", trimmed)
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return err
		}
		*v = NumberValue(f)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	switch v.Kind() {
	case DoubleType:
		return v.num, nil
	case BooleanType:
		return v.flag, nil
	default:
		return v.text, nil
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. The variant is chosen from the resolved scalar tag.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: property value must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!str":
		*v = TextValue(node.Value)
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = NumberValue(f)
	default:
		return fmt.Errorf("line %d: unsupported property value %q", node.Line, node.Value)
	}
	return nil
}
