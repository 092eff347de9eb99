// Package value defines the dynamic tree every query stage consumes and produces.
//
// A Value is one of null, boolean, number, string, array or object. Objects keep
// their keys in insertion order. Values are treated as immutable: operations that
// change an object return a copy.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/number"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a node of the dynamic tree. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	items []Value
	obj   *Object
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps items without copying them.
func Array(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// FromObject wraps o. A nil object becomes an empty one.
func FromObject(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

// TypeName returns the lowercase name of the variant, as used in error messages.
func (v Value) TypeName() string { return v.kind.String() }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the backing slice; callers must not modify it.
func (v Value) AsArray() ([]Value, bool) { return v.items, v.kind == KindArray }

func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// IsPrimitive reports whether v is a string, number, boolean or null.
func (v Value) IsPrimitive() bool {
	return v.kind != KindArray && v.kind != KindObject
}

// Get returns the field key of an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Len returns the element count of arrays and objects, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// String returns the display form: strings verbatim, everything else as compact JSON.
func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	return v.Canonical()
}

// Canonical returns the compact JSON serialization of v.
func (v Value) Canonical() string {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.String()
}

// MarshalJSON encodes v keeping object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			buf.WriteString("null")
			return
		}
		buf.WriteString(number.Format(v.n))
	case KindString:
		encodeString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encode(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, key := range v.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, key)
			buf.WriteByte(':')
			v.obj.values[i].encode(buf)
		}
		buf.WriteByte('}')
	}
}

func encodeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encode only fails for unsupported Go types.
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1)
}

// Equal reports deep equality. Object key order is significant.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	default:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for i, key := range a.obj.keys {
			if b.obj.keys[i] != key || !Equal(a.obj.values[i], b.obj.values[i]) {
				return false
			}
		}
		return true
	}
}

// Interface converts v into plain Go values (nil, bool, float64, string, []any,
// map[string]any) as produced by encoding/json.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for i, key := range v.obj.keys {
			out[key] = v.obj.values[i].Interface()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts plain Go values into a Value. Map keys are sorted since Go maps
// carry no order.
func FromAny(x any) (Value, error) {
	if n, ok := number.ToFloat64(x); ok {
		return Number(n), nil
	}

	switch current := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return current, nil
	case bool:
		return Bool(current), nil
	case string:
		return String(current), nil
	case []any:
		items := make([]Value, 0, len(current))
		for i, item := range current {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items = append(items, converted)
		}
		return Array(items), nil
	case map[string]any:
		keys := make([]string, 0, len(current))
		for key := range current {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		obj := NewObject()
		for _, key := range keys {
			converted, err := FromAny(current[key])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			obj.Set(key, converted)
		}
		return FromObject(obj), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}

// Lookup resolves a dotted field path such as ".a.b" against v. The path "." (or
// the empty path) returns v itself.
func Lookup(v Value, path string) (Value, bool) {
	current := v
	for _, field := range FieldPath(path) {
		next, ok := current.Get(field)
		if !ok {
			return Value{}, false
		}
		current = next
	}
	return current, true
}

// Assign returns a copy of v with the field at path replaced by nv. Missing
// intermediate objects are created; a non-object v is replaced by a new object.
func Assign(v Value, path string, nv Value) Value {
	return assign(v, FieldPath(path), nv)
}

func assign(v Value, fields []string, nv Value) Value {
	if len(fields) == 0 {
		return nv
	}

	obj, ok := v.AsObject()
	if !ok {
		obj = NewObject()
	}

	child, _ := obj.Get(fields[0])
	return FromObject(obj.With(fields[0], assign(child, fields[1:], nv)))
}

// FieldPath splits ".a.b" into ["a", "b"]. "." and "" yield no fields.
func FieldPath(path string) []string {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
