package value

import "iter"

// Object is an ordered map with unique keys. Set on an existing key keeps its
// original position.
type Object struct {
	keys   []string
	values []Value
	index  map[string]int
}

func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.values[i], true
}

// Set inserts or replaces key in place. Use it only on objects being built.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.values[i] = v
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
}

// With returns a copy of o with key set to v.
func (o *Object) With(key string, v Value) *Object {
	c := o.Clone()
	c.Set(key, v)
	return c
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// All iterates entries in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for i, key := range o.keys {
			if !yield(key, o.values[i]) {
				return
			}
		}
	}
}

func (o *Object) Clone() *Object {
	c := &Object{
		keys:   make([]string, len(o.keys), len(o.keys)+1),
		values: make([]Value, len(o.values), len(o.values)+1),
		index:  make(map[string]int, len(o.keys)+1),
	}
	copy(c.keys, o.keys)
	copy(c.values, o.values)
	for k, i := range o.index {
		c.index[k] = i
	}
	return c
}

// ObjectOf builds an object value from alternating key/value pairs.
func ObjectOf(pairs ...any) Value {
	obj := NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case Value:
			obj.Set(key, v)
		default:
			converted, err := FromAny(v)
			if err != nil {
				converted = Null()
			}
			obj.Set(key, converted)
		}
	}
	return FromObject(obj)
}
