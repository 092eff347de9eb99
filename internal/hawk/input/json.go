package input

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/jacoelho/hawk/internal/hawk/value"
)

func isJSON(trimmed []byte) bool {
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	if !(first == '{' && last == '}') && !(first == '[' && last == ']') {
		return false
	}
	return gjson.ValidBytes(trimmed)
}

// ParseJSON decodes a JSON document keeping object keys in document order.
func ParseJSON(data []byte) (value.Value, error) {
	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) {
		return value.Value{}, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}
	return fromJSON(gjson.ParseBytes(data)), nil
}

func fromJSON(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Null()
	case gjson.False:
		return value.Bool(false)
	case gjson.True:
		return value.Bool(true)
	case gjson.Number:
		return value.Number(r.Num)
	case gjson.String:
		return value.String(r.Str)
	}

	if r.IsArray() {
		var items []value.Value
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromJSON(item))
			return true
		})
		return value.Array(items)
	}

	obj := value.NewObject()
	r.ForEach(func(key, item gjson.Result) bool {
		obj.Set(key.Str, fromJSON(item))
		return true
	})
	return value.FromObject(obj)
}
