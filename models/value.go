package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cast"
)

// ValueType tags which member of Value is set.
type ValueType uint8

const (
	ValueText ValueType = iota
	ValueNumber
)

// Value is the value held by one characteristic on a line. It is either a
// text (also used for select options) or a number.
type Value struct {
	Type ValueType
	Str  string
	Num  float64
}

// TextValue builds a text value.
func TextValue(s string) Value {
	return Value{Type: ValueText, Str: s}
}

// NumberValue builds a numeric value.
func NumberValue(n float64) Value {
	return Value{Type: ValueNumber, Num: n}
}

// ValueFor coerces raw into the representation declared by kind. Number
// kinds accept numeric strings; text and select kinds stringify numbers.
func ValueFor(kind CharacteristicKind, raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		raw = v.Raw()
	}
	switch kind {
	case KindNumber:
		if s, ok := raw.(string); ok && s == "" {
			return NumberValue(0), nil
		}
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			return Value{}, fmt.Errorf("value %v is not a number", raw)
		}
		return NumberValue(n), nil
	case KindSelect, KindText:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return Value{}, fmt.Errorf("value %v is not text", raw)
		}
		return TextValue(s), nil
	default:
		return Value{}, fmt.Errorf("unknown characteristic kind %q", kind)
	}
}

// IsNumber reports whether the value holds a number.
func (v Value) IsNumber() bool { return v.Type == ValueNumber }

// Text returns the value as a string. Numbers are formatted without
// trailing zeros.
func (v Value) Text() string {
	if v.IsNumber() {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// Number returns the numeric value and whether it could be read as one.
func (v Value) Number() (float64, bool) {
	if v.IsNumber() {
		return v.Num, true
	}
	n, err := strconv.ParseFloat(v.Str, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsEmpty reports whether the value is the empty text.
func (v Value) IsEmpty() bool {
	return !v.IsNumber() && v.Str == ""
}

// Raw returns the underlying string or float64.
func (v Value) Raw() any {
	if v.IsNumber() {
		return v.Num
	}
	return v.Str
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch r := raw.(type) {
	case float64:
		*v = NumberValue(r)
	case string:
		*v = TextValue(r)
	case bool:
		*v = TextValue(strconv.FormatBool(r))
	default:
		return fmt.Errorf("characteristic value must be a string or a number, got %s", data)
	}
	return nil
}

// CharacteristicValue is the per-line state of one characteristic.
// Price is only meaningful while Enabled is true; a disabled value is kept
// so it can be re-enabled without re-entering it.
type CharacteristicValue struct {
	Value   Value    `json:"valor"`
	Price   *float64 `json:"precio,omitempty"`
	Enabled *bool    `json:"activada,omitempty"`
}

// IsEnabled reports whether the characteristic is toggled on.
func (c CharacteristicValue) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}
