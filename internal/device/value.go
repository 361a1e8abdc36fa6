package device

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which primitive a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindNumber
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is a primitive attribute value: string, boolean, number or null.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	b    bool
	num  float64
}

// Null returns the null value
func Null() Value { return Value{} }

// String returns a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Kind reports which primitive the value holds
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether the value is a string
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// BoolValue returns the boolean payload and whether the value is a boolean
func (v Value) BoolValue() (bool, bool) { return v.b, v.kind == KindBool }

// Num returns the numeric payload and whether the value is a number
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Truthy reports whether the value counts as set for fallback purposes.
// Null, false, 0 and the empty string are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	default:
		return false
	}
}

// Text returns the value's default display text
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal reports whether two values hold the same kind and payload
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	default:
		return true
	}
}

// GoString supports %#v in test failure output
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("device.String(%q)", v.str)
	case KindBool:
		return fmt.Sprintf("device.Bool(%v)", v.b)
	case KindNumber:
		return fmt.Sprintf("device.Number(%v)", v.num)
	default:
		return "device.Null()"
	}
}

// MarshalJSON encodes the value as the matching JSON primitive
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON primitive. Objects and arrays are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case '{', '[':
		return fmt.Errorf("unsupported JSON value %s: only primitives are allowed", truncate(data, 32))
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Number(n)
		return nil
	}
}

// FromAny converts a decoded JSON value (as produced by encoding/json into
// interface{}) to a Value. Non-primitive inputs are reported as not ok.
func FromAny(x interface{}) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return Null(), true
	case string:
		return String(t), true
	case bool:
		return Bool(t), true
	case float64:
		return Number(t), true
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Null(), false
		}
		return Number(n), true
	case int:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	default:
		return Null(), false
	}
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
