package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/value"
)

const sampleRunes = 20

var infoTypeNames = map[value.Kind]string{
	value.KindNull:   "Null",
	value.KindBool:   "Boolean",
	value.KindNumber: "Number",
	value.KindString: "String",
	value.KindArray:  "Array",
	value.KindObject: "Object",
}

// PrintInfo writes a summary of the shape of data: the record count and, for
// object records, the fields of the first record with a type and sample value.
func PrintInfo(w io.Writer, data []value.Value) error {
	var b strings.Builder

	b.WriteString("=== Data Information ===\n")
	fmt.Fprintf(&b, "Total records: %d\n", len(data))

	if len(data) > 0 {
		switch first := data[0]; first.Kind() {
		case value.KindObject:
			obj, _ := first.AsObject()
			writeObjectInfo(&b, obj)
		case value.KindArray:
			b.WriteString("Type: Nested Array\n")
		default:
			b.WriteString("Type: Simple Values\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeObjectInfo(b *strings.Builder, obj *value.Object) {
	fmt.Fprintf(b, "Type: Object Array\nFields: %d\n\n", obj.Len())

	b.WriteString("Field Details:\n")
	for key, v := range obj.All() {
		fmt.Fprintf(b, "  %-15s %-10s (e.g., %s)\n", key, infoTypeNames[v.Kind()], sample(v))
	}

	b.WriteString("\nArray Fields:\n")
	for key, v := range obj.All() {
		items, ok := v.AsArray()
		if !ok {
			continue
		}
		fmt.Fprintf(b, "  %-15s [%d items]\n", key, len(items))
		if len(items) == 0 {
			continue
		}
		if nested, ok := items[0].AsObject(); ok {
			fmt.Fprintf(b, "    └─ %s\n", strings.Join(nested.Keys(), ", "))
		}
	}
}

func sample(v value.Value) string {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		if runes := []rune(s); len(runes) > sampleRunes {
			s = string(runes[:sampleRunes])
		}
		return `"` + s + `"`
	case value.KindArray:
		return fmt.Sprintf("[%d items]", v.Len())
	case value.KindObject:
		obj, _ := v.AsObject()
		first := ""
		if keys := obj.Keys(); len(keys) > 0 {
			first = keys[0]
		}
		return "{" + first + "...}"
	default:
		return v.String()
	}
}
