// Package domain defines the core domain models for grcbridge.
package domain

import (
	"encoding/json"
	"strconv"
)

// ValueKind tags the dynamic record value union.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// Value is a tagged union over the shapes a platform record field can
// take: string, number, bool, array, nested object, or null. Records are
// alias-keyed bags of these; masking and transformation walk them with
// explicit recursive descent instead of reflecting over interface{}.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// String wraps a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool wraps a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Array wraps an array value.
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

// Object wraps a nested object value.
func Object(fields map[string]Value) Value { return Value{kind: KindObject, obj: fields} }

// FromAny normalizes a decoded JSON value into the union.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case bool:
		return Bool(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Array(items)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = FromAny(item)
		}
		return Object(fields)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	default:
		return Null()
	}
}

// Kind returns the union tag.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload; valid only for KindString.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload; valid only for KindNumber.
func (v Value) Num() float64 { return v.num }

// Boolean returns the bool payload; valid only for KindBool.
func (v Value) Boolean() bool { return v.b }

// Items returns the array payload; valid only for KindArray.
func (v Value) Items() []Value { return v.arr }

// Fields returns the object payload; valid only for KindObject.
func (v Value) Fields() map[string]Value { return v.obj }

// IsEmpty reports whether the value is null, an empty string, an empty
// array, or an empty object. Numbers and booleans are never empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == ""
	case KindArray:
		return len(v.arr) == 0
	case KindObject:
		return len(v.obj) == 0
	default:
		return false
	}
}

// Text renders a scalar value as a plain string. Arrays and objects
// return their JSON encoding.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		data, _ := json.Marshal(v)
		return string(data)
	}
}

// ToAny converts the value back to a plain decoded-JSON shape.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindArray:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.ToAny()
		}
		return items
	case KindObject:
		fields := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			fields[k] = item.ToAny()
		}
		return fields
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToAny())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// RawRecord is an unordered alias -> value mapping exactly as returned
// by the platform. It exists only for the duration of one
// retrieval+transform+mask cycle and is never persisted.
type RawRecord map[string]Value

// TransformedRecord is a display-name -> formatted-value re-keying of a
// RawRecord.
type TransformedRecord map[string]Value
