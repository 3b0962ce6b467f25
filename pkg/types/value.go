package types

import (
	"fmt"
	"math"
	"strconv"
)

// Attribute value kinds. An attribute holds exactly one kind of value.
const (
	ValueKindString = "string"
	ValueKindNumber = "number"
	ValueKindOpaque = "opaque"
)

// Value is a single attribute value of a closed kind.
type Value struct {
	kind   string
	str    string
	num    float64
	opaque any
}

// StringValue returns a string attribute value.
func StringValue(s string) Value { return Value{kind: ValueKindString, str: s} }

// NumberValue returns a numeric attribute value.
func NumberValue(n float64) Value { return Value{kind: ValueKindNumber, num: n} }

// OpaqueValue returns an attribute value that is carried but not interpreted.
func OpaqueValue(v any) Value { return Value{kind: ValueKindOpaque, opaque: v} }

// ValueOf converts a Go value into the closest attribute value kind.
// Strings become string values, integer and float types become numbers, a
// Value is returned unchanged, and anything else is opaque.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return StringValue(x)
	case int:
		return NumberValue(float64(x))
	case int32:
		return NumberValue(float64(x))
	case int64:
		return NumberValue(float64(x))
	case uint:
		return NumberValue(float64(x))
	case uint32:
		return NumberValue(float64(x))
	case uint64:
		return NumberValue(float64(x))
	case float32:
		return NumberValue(float64(x))
	case float64:
		return NumberValue(x)
	default:
		return OpaqueValue(v)
	}
}

// Kind returns one of the ValueKind constants, or "" for the zero Value.
func (v Value) Kind() string { return v.kind }

// IsZero reports whether v was never assigned.
func (v Value) IsZero() bool { return v.kind == "" }

// Interface returns the underlying Go value. Opaque maps and slices are
// shared with v.
func (v Value) Interface() any {
	switch v.kind {
	case ValueKindString:
		return v.str
	case ValueKindNumber:
		return v.num
	case ValueKindOpaque:
		return v.opaque
	default:
		return nil
	}
}

// String renders the value for labels and dumps. Integral numbers print
// without a fractional part.
func (v Value) String() string {
	switch v.kind {
	case ValueKindString:
		return v.str
	case ValueKindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueKindOpaque:
		return fmt.Sprint(v.opaque)
	default:
		return ""
	}
}

// Attributes is an insertion-ordered mapping of attribute name to Value.
// The zero value is an empty mapping ready to use.
type Attributes struct {
	keys   []string
	values map[string]Value
}

// AttributesOf builds Attributes from alternating key, value arguments.
// Values are converted with ValueOf. A trailing key without a value,
// non-string keys and pairs Set rejects are ignored.
func AttributesOf(kv ...any) Attributes {
	var a Attributes
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		_ = a.Set(key, ValueOf(kv[i+1]))
	}
	return a
}

// Set assigns value to key. Re-setting an existing key keeps its position.
// Returns ErrInvalidName if key is empty and ErrInvalidValue for a NaN or
// infinite number.
func (a *Attributes) Set(key string, value Value) error {
	if key == "" {
		return ErrInvalidName
	}
	if value.kind == ValueKindNumber && (math.IsNaN(value.num) || math.IsInf(value.num, 0)) {
		return fmt.Errorf("%w: %s", ErrInvalidValue, key)
	}
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
	return nil
}

// Get returns the value for key and whether it was present.
func (a Attributes) Get(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the attribute names in insertion order.
func (a Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of attributes.
func (a Attributes) Len() int { return len(a.keys) }

// Clone returns an independent copy. Opaque maps and slices are copied
// deeply.
func (a Attributes) Clone() Attributes {
	out := Attributes{
		keys:   make([]string, len(a.keys)),
		values: make(map[string]Value, len(a.values)),
	}
	copy(out.keys, a.keys)
	for k, v := range a.values {
		if v.kind == ValueKindOpaque {
			v.opaque = cloneOpaque(v.opaque)
		}
		out.values[k] = v
	}
	return out
}

func cloneOpaque(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneOpaque(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneOpaque(e)
		}
		return out
	default:
		return v
	}
}

// Merge returns a copy of a with every entry of overrides applied on top.
// Keys new to a are appended in the order overrides holds them.
func (a Attributes) Merge(overrides Attributes) Attributes {
	out := a.Clone()
	for _, k := range overrides.keys {
		_ = out.Set(k, overrides.values[k])
	}
	return out
}

// Map returns the attributes as plain Go values keyed by name.
func (a Attributes) Map() map[string]any {
	out := make(map[string]any, len(a.keys))
	for _, k := range a.keys {
		out[k] = a.values[k].Interface()
	}
	return out
}
