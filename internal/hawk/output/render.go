package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/hawk/internal/hawk/number"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

// Render writes data in the given format. Nothing is written for empty data.
func Render(w io.Writer, data []value.Value, format Format) error {
	if len(data) == 0 {
		return nil
	}

	switch format {
	case FormatJSON:
		return renderJSON(w, data)
	case FormatYAML:
		return renderYAML(w, data)
	case FormatList:
		return renderList(w, data)
	case FormatTable:
		if isObjectArray(data) {
			return renderTable(w, data)
		}
		if flat := flattenNested(data); isObjectArray(flat) {
			return renderTable(w, flat)
		}
		return ErrNotTable
	default:
		return renderAuto(w, data)
	}
}

// renderAuto prints scalars as a list, objects as a table and unwraps a single
// nested array before deciding; anything else is JSON.
func renderAuto(w io.Writer, data []value.Value) error {
	switch {
	case isSimple(data):
		return renderList(w, data)
	case isObjectArray(data):
		return renderTable(w, data)
	case len(data) == 1 && data[0].Kind() == value.KindArray:
		flat := flattenNested(data)
		switch {
		case len(flat) > 0 && isObjectArray(flat):
			return renderTable(w, flat)
		case len(flat) > 0 && isSimple(flat):
			return renderList(w, flat)
		}
	}
	return renderJSON(w, data)
}

func renderJSON(w io.Writer, data []value.Value) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func renderYAML(w io.Writer, data []value.Value) error {
	docs := make([]any, len(data))
	for i, v := range data {
		docs[i] = toYAML(v)
	}

	payload, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	_, err = w.Write(payload)
	return err
}

// toYAML maps objects onto yaml.MapSlice so key order survives encoding.
func toYAML(v value.Value) any {
	switch v.Kind() {
	case value.KindObject:
		obj, _ := v.AsObject()
		out := make(yaml.MapSlice, 0, obj.Len())
		for key, item := range obj.All() {
			out = append(out, yaml.MapItem{Key: key, Value: toYAML(item)})
		}
		return out
	case value.KindArray:
		items, _ := v.AsArray()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = toYAML(item)
		}
		return out
	case value.KindNumber:
		n, _ := v.AsNumber()
		if number.IsIntegral(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	default:
		return v.Interface()
	}
}

func renderList(w io.Writer, data []value.Value) error {
	for _, v := range data {
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
	}
	return nil
}

// renderTable prints objects with one column per flattened field path. Nested
// objects become dotted columns and arrays are summarized by their length.
func renderTable(w io.Writer, data []value.Value) error {
	columns := tableColumns(data)
	if len(columns) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(columns, "\t")); err != nil {
		return err
	}

	cells := make([]string, len(columns))
	for _, row := range data {
		for i, column := range columns {
			cells[i] = tableCell(row, column)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func tableColumns(data []value.Value) []string {
	var columns []string
	seen := make(map[string]struct{})

	var collect func(v value.Value, prefix string)
	collect = func(v value.Value, prefix string) {
		obj, ok := v.AsObject()
		if !ok {
			if prefix == "" {
				return
			}
			if _, dup := seen[prefix]; !dup {
				seen[prefix] = struct{}{}
				columns = append(columns, prefix)
			}
			return
		}
		for key, item := range obj.All() {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}
			collect(item, name)
		}
	}

	for _, row := range data {
		collect(row, "")
	}
	return columns
}

func tableCell(row value.Value, column string) string {
	current := row
	for _, part := range strings.Split(column, ".") {
		next, ok := current.Get(part)
		if !ok {
			return ""
		}
		current = next
	}

	if items, ok := current.AsArray(); ok {
		return fmt.Sprintf("[%d items]", len(items))
	}
	return strings.ReplaceAll(current.String(), "\t", " ")
}

func isSimple(data []value.Value) bool {
	for _, v := range data {
		switch v.Kind() {
		case value.KindString, value.KindNumber, value.KindBool:
		default:
			return false
		}
	}
	return true
}

func isObjectArray(data []value.Value) bool {
	for _, v := range data {
		if v.Kind() != value.KindObject {
			return false
		}
	}
	return true
}

func flattenNested(data []value.Value) []value.Value {
	var out []value.Value
	for _, v := range data {
		if items, ok := v.AsArray(); ok {
			out = append(out, items...)
			continue
		}
		out = append(out, v)
	}
	return out
}
