// Package aggregate implements group_by and the count/sum/avg/min/max stages,
// which aggregate per group when the working set is grouped.
package aggregate

import (
	"strconv"

	"github.com/jacoelho/hawk/internal/hawk/value"
)

const (
	GroupKey = "group"
	ItemsKey = "items"
)

// Group is one partition produced by group_by.
type Group struct {
	Key   string
	Items []value.Value
}

// Value renders g as {"group": key, "items": [...]}.
func (g Group) Value() value.Value {
	obj := value.NewObject()
	obj.Set(GroupKey, value.String(g.Key))
	obj.Set(ItemsKey, value.Array(g.Items))
	return value.FromObject(obj)
}

// GroupBy partitions elements by the display form of field. Groups keep the
// order in which their key was first seen; elements without the field are dropped.
func GroupBy(elements []value.Value, field string) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, element := range elements {
		v, ok := value.Lookup(element, field)
		if !ok {
			continue
		}
		key := v.String()

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Items = append(groups[i].Items, element)
	}
	return groups
}

// Values renders every group with Group.Value.
func Values(groups []Group) []value.Value {
	out := make([]value.Value, len(groups))
	for i, g := range groups {
		out[i] = g.Value()
	}
	return out
}

// Detect recovers groups from a working set that did not come straight from
// group_by. The set is grouped when every element is a {group, items} object,
// or when there are at least two elements and each is a non-empty array whose
// first element is an object; such array groups are keyed by position. A
// single array is treated as nested data.
func Detect(elements []value.Value) ([]Group, bool) {
	if len(elements) == 0 {
		return nil, false
	}
	if groups, ok := groupObjects(elements); ok {
		return groups, true
	}
	return groupArrays(elements)
}

func groupObjects(elements []value.Value) ([]Group, bool) {
	groups := make([]Group, 0, len(elements))
	for _, element := range elements {
		obj, ok := element.AsObject()
		if !ok || obj.Len() != 2 {
			return nil, false
		}
		key, hasKey := obj.Get(GroupKey)
		items, hasItems := obj.Get(ItemsKey)
		if !hasKey || !hasItems {
			return nil, false
		}
		list, ok := items.AsArray()
		if !ok {
			return nil, false
		}
		groups = append(groups, Group{Key: key.String(), Items: list})
	}
	return groups, true
}

func groupArrays(elements []value.Value) ([]Group, bool) {
	if len(elements) < 2 {
		return nil, false
	}

	groups := make([]Group, 0, len(elements))
	for i, element := range elements {
		items, ok := element.AsArray()
		if !ok || len(items) == 0 || items[0].Kind() != value.KindObject {
			return nil, false
		}
		groups = append(groups, Group{Key: strconv.Itoa(i), Items: items})
	}
	return groups, true
}
