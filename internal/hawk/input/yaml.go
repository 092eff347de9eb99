package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/hawk/internal/hawk/value"
)

var yamlMarkers = []string{"apiVersion:", "kind:", "version:", "services:"}

// isYAML accepts well-known manifest keys or text whose meaningful lines are
// mostly YAML-shaped.
func isYAML(trimmed []byte) bool {
	content := string(trimmed)
	for _, marker := range yamlMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}

	meaningful, shaped := 0, 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		meaningful++
		if isYAMLLine(line, stripped) {
			shaped++
		}
	}

	if meaningful < 3 {
		return false
	}
	return float64(shaped)/float64(meaningful) > 0.8
}

func isYAMLLine(line, stripped string) bool {
	if strings.HasPrefix(stripped, "- ") || stripped == "---" {
		return true
	}

	key, val, found := strings.Cut(stripped, ":")
	if !found {
		return false
	}
	key = strings.TrimSpace(key)
	val = strings.TrimSpace(val)

	if key == "" {
		return false
	}
	if strings.Contains(key, " ") && !strings.HasPrefix(key, `"`) && !strings.HasPrefix(key, "'") {
		return false
	}
	if strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t") {
		return true
	}
	if val == "" || strings.HasPrefix(val, "[") || strings.HasPrefix(val, "{") || val == "true" || val == "false" {
		return true
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return true
	}
	// paths, URLs and timestamps in an unindented value suggest a log line
	return !(strings.Contains(val, "/") && len(val) > 10)
}

// ParseYAML decodes a YAML stream. Mapping keys keep their document order. A
// stream with several documents becomes an array of documents.
func ParseYAML(data []byte) (value.Value, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.UseOrderedMap())

	var docs []value.Value
	for {
		var doc any
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: failed to decode YAML: %v", ErrDecode, err)
		}
		if doc == nil {
			continue
		}
		docs = append(docs, fromYAML(doc))
	}

	switch len(docs) {
	case 0:
		return value.Null(), nil
	case 1:
		return docs[0], nil
	default:
		return value.Array(docs), nil
	}
}

func fromYAML(x any) value.Value {
	switch current := x.(type) {
	case yaml.MapSlice:
		obj := value.NewObject()
		for _, item := range current {
			obj.Set(yamlKey(item.Key), fromYAML(item.Value))
		}
		return value.FromObject(obj)
	case []any:
		items := make([]value.Value, len(current))
		for i, item := range current {
			items[i] = fromYAML(item)
		}
		return value.Array(items)
	}

	if v, err := value.FromAny(x); err == nil {
		return v
	}
	return value.String(fmt.Sprint(x))
}

func yamlKey(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}
