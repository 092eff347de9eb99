// Package strops implements the chain of single-value string operations used
// inside map and select stages, e.g. `trim | lower | contains("err")`.
package strops

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/jacoelho/hawk/internal/hawk/number"
	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/scan"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

type operationFunc func(v value.Value) (value.Value, error)

// Op is one compiled string operation.
type Op struct {
	Name string
	Text string

	apply     operationFunc
	predicate bool
}

// IsPredicate reports whether the operation yields a boolean
// (contains, starts_with, ends_with).
func (o Op) IsPredicate() bool { return o.predicate }

// Apply runs the operation on v.
func (o Op) Apply(v value.Value) (value.Value, error) {
	return o.apply(v)
}

var simpleOperations = map[string]func(string) value.Value{
	"upper": func(s string) value.Value { return value.String(strings.ToUpper(s)) },
	"lower": func(s string) value.Value { return value.String(strings.ToLower(s)) },
	"trim":  func(s string) value.Value { return value.String(strings.TrimSpace(s)) },
	"trim_start": func(s string) value.Value {
		return value.String(strings.TrimLeftFunc(s, unicode.IsSpace))
	},
	"trim_end": func(s string) value.Value {
		return value.String(strings.TrimRightFunc(s, unicode.IsSpace))
	},
	"length": func(s string) value.Value {
		return value.Number(float64(len([]rune(s))))
	},
	"reverse": func(s string) value.Value {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return value.String(string(runes))
	},
}

var matchOperations = map[string]func(s, pattern string) bool{
	"contains":    strings.Contains,
	"starts_with": strings.HasPrefix,
	"ends_with":   strings.HasSuffix,
}

// Parse compiles a single operation such as `upper`, `replace("a", "b")` or
// `split(",")[1:3]`.
func Parse(text string) (Op, error) {
	text = strings.TrimSpace(text)
	op := Op{Name: text, Text: text}

	if fn, ok := simpleOperations[text]; ok {
		op.apply = stringOnly(text, fn)
		return op, nil
	}

	if strings.HasPrefix(text, "split(") && strings.HasSuffix(text, "]") {
		if cut := strings.LastIndex(text, ")["); cut > 0 {
			return parseSplitPick(op, text[:cut+1], text[cut+2:len(text)-1])
		}
	}

	name, args, ok := scan.Call(text)
	if !ok {
		return Op{}, qerr.StringOperation("unknown string operation: %s", text)
	}
	op.Name = name

	if match, ok := matchOperations[name]; ok {
		pattern := scan.Unquote(strings.TrimSpace(args))
		op.apply = matchOperation(name, pattern, match)
		op.predicate = true
		return op, nil
	}

	switch name {
	case "replace":
		return parseReplace(op, args)
	case "substring":
		return parseSubstring(op, args)
	case "split":
		delim := scan.Unquote(strings.TrimSpace(args))
		op.apply = func(v value.Value) (value.Value, error) {
			parts, err := splitParts(v, delim)
			if err != nil {
				return value.Value{}, err
			}
			return stringsArray(parts), nil
		}
		return op, nil
	case "join":
		delim := scan.Unquote(strings.TrimSpace(args))
		op.apply = func(v value.Value) (value.Value, error) {
			return join(v, delim)
		}
		return op, nil
	default:
		return Op{}, qerr.StringOperation("unknown string operation: %s", text)
	}
}

func stringOnly(name string, fn func(string) value.Value) operationFunc {
	return func(v value.Value) (value.Value, error) {
		s, err := requireString(name, v)
		if err != nil {
			return value.Value{}, err
		}
		return fn(s), nil
	}
}

// matchOperation treats a pattern containing '|' as a list of trimmed
// alternatives. An empty alternative matches everything, as in "b|". A
// pattern made only of separators, such as "|", is matched literally.
func matchOperation(name, pattern string, match func(s, pattern string) bool) operationFunc {
	alternatives := strings.Split(pattern, "|")
	separatorsOnly := true
	for i := range alternatives {
		alternatives[i] = strings.TrimSpace(alternatives[i])
		if alternatives[i] != "" {
			separatorsOnly = false
		}
	}
	if separatorsOnly || !strings.Contains(pattern, "|") {
		alternatives = []string{pattern}
	}

	return func(v value.Value) (value.Value, error) {
		s, err := requireString(name, v)
		if err != nil {
			return value.Value{}, err
		}
		for _, alternative := range alternatives {
			if match(s, alternative) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	}
}

func parseReplace(op Op, args string) (Op, error) {
	parts, err := scan.Split(args, ',')
	if err != nil || len(parts) != 2 {
		return Op{}, qerr.StringOperation("replace requires exactly 2 arguments: %s", op.Text)
	}
	old := scan.Unquote(strings.TrimSpace(parts[0]))
	replacement := scan.Unquote(strings.TrimSpace(parts[1]))

	op.apply = stringOnly("replace", func(s string) value.Value {
		return value.String(strings.ReplaceAll(s, old, replacement))
	})
	return op, nil
}

func parseSubstring(op Op, args string) (Op, error) {
	parts := strings.Split(args, ",")
	if len(parts) > 2 {
		return Op{}, qerr.StringOperation("substring takes start and optional length: %s", op.Text)
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || start < 0 {
		return Op{}, qerr.StringOperation("invalid start position for substring: %s", op.Text)
	}

	length := -1
	if len(parts) == 2 {
		length, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || length < 0 {
			return Op{}, qerr.StringOperation("invalid length for substring: %s", op.Text)
		}
	}

	op.apply = stringOnly("substring", func(s string) value.Value {
		return value.String(substring(s, start, length))
	})
	return op, nil
}

// substring counts in runes; the end is clamped to the string length.
func substring(s string, start, length int) string {
	runes := []rune(s)
	if start >= len(runes) {
		return ""
	}
	end := len(runes)
	if length >= 0 && start+length < end {
		end = start + length
	}
	return string(runes[start:end])
}

// parseSplitPick handles split(delim)[i] and split(delim)[start:end].
func parseSplitPick(op Op, call, pick string) (Op, error) {
	_, args, ok := scan.Call(call)
	if !ok {
		return Op{}, qerr.StringOperation("invalid split format: %s", op.Text)
	}
	op.Name = "split"
	delim := scan.Unquote(strings.TrimSpace(args))

	if scan.IsSlice(pick) {
		slice, ok := scan.ParseSlice(pick)
		if !ok {
			return Op{}, qerr.StringOperation("invalid slice format, expected start:end: %s", op.Text)
		}
		op.apply = func(v value.Value) (value.Value, error) {
			parts, err := splitParts(v, delim)
			if err != nil {
				return value.Value{}, err
			}
			return stringsArray(scan.Apply(slice, parts)), nil
		}
		return op, nil
	}

	index, ok := number.ParseIndex(pick)
	if !ok {
		return Op{}, qerr.StringOperation("invalid array index: %s", pick)
	}
	op.apply = func(v value.Value) (value.Value, error) {
		parts, err := splitParts(v, delim)
		if err != nil {
			return value.Value{}, err
		}
		i, ok := scan.Index(index, len(parts))
		if !ok {
			return value.String(""), nil
		}
		return value.String(parts[i]), nil
	}
	return op, nil
}

func splitParts(v value.Value, delim string) ([]string, error) {
	s, err := requireString("split", v)
	if err != nil {
		return nil, err
	}
	return strings.Split(s, delim), nil
}

func stringsArray(parts []string) value.Value {
	items := make([]value.Value, len(parts))
	for i, part := range parts {
		items[i] = value.String(part)
	}
	return value.Array(items)
}

func join(v value.Value, delim string) (value.Value, error) {
	items, ok := v.AsArray()
	if !ok {
		return value.Value{}, qerr.StringOperation("join can only be applied to arrays, got: %s", v.TypeName())
	}

	parts := make([]string, len(items))
	for i, item := range items {
		if !item.IsPrimitive() {
			return value.Value{}, qerr.StringOperation("cannot join non-primitive values, got: %s", item.TypeName())
		}
		parts[i] = item.String()
	}
	return value.String(strings.Join(parts, delim)), nil
}

func requireString(name string, v value.Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", qerr.StringOperation("%s can only be applied to string values, got: %s", name, v.TypeName())
	}
	return s, nil
}
