package query

import (
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/number"
	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/scan"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

type stepKind int

const (
	stepField stepKind = iota
	stepIndex
	stepExpand
	stepSlice
)

type step struct {
	kind  stepKind
	field string
	index int
	slice scan.Slice
}

func (s step) String() string {
	switch s.kind {
	case stepField:
		return "." + s.field
	case stepIndex:
		return "[" + number.Format(float64(s.index)) + "]"
	case stepExpand:
		return "[]"
	default:
		return "[:]"
	}
}

// Selector is the parsed leading path of a query.
type Selector struct {
	Text  string
	steps []step
}

// ParseSelector parses paths such as ".", ".users", ".users[0].name",
// ".items[].id", ".items[1:-1]" and ".[-1]". A bracketed quoted string
// selects a key that is not a plain identifier: .["first name"].
func ParseSelector(text string) (*Selector, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, ".") {
		return nil, qerr.InvalidQuery("selector must start with '.': %s", text)
	}

	sel := &Selector{Text: text}
	rest := text[1:]
	first := true

	for rest != "" {
		switch rest[0] {
		case '.':
			if first {
				return nil, qerr.InvalidQuery("empty field name in selector: %s", text)
			}
			rest = rest[1:]
			name, tail := cutField(rest)
			if name == "" {
				return nil, qerr.InvalidQuery("empty field name in selector: %s", text)
			}
			sel.steps = append(sel.steps, step{kind: stepField, field: name})
			rest = tail
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, qerr.InvalidQuery("unclosed '[' in selector: %s", text)
			}
			st, err := parseBracket(rest[1:end])
			if err != nil {
				return nil, err
			}
			sel.steps = append(sel.steps, st)
			rest = rest[end+1:]
		default:
			if !first {
				return nil, qerr.InvalidQuery("unexpected %q in selector: %s", rest[0], text)
			}
			name, tail := cutField(rest)
			sel.steps = append(sel.steps, step{kind: stepField, field: name})
			rest = tail
		}
		first = false
	}
	return sel, nil
}

func cutField(s string) (name, rest string) {
	end := strings.IndexAny(s, ".[")
	if end < 0 {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(s[:end]), s[end:]
}

func parseBracket(content string) (step, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return step{kind: stepExpand}, nil
	case len(content) >= 2 && (content[0] == '"' || content[0] == '\''):
		return step{kind: stepField, field: scan.Unquote(content)}, nil
	case scan.IsSlice(content):
		slice, ok := scan.ParseSlice(content)
		if !ok {
			return step{}, qerr.InvalidQuery("invalid slice [%s]", content)
		}
		return step{kind: stepSlice, slice: slice}, nil
	default:
		index, ok := number.ParseIndex(content)
		if !ok {
			return step{}, qerr.InvalidQuery("invalid array index [%s]", content)
		}
		return step{kind: stepIndex, index: index}, nil
	}
}

// IsIdentity reports whether the selector is ".".
func (s *Selector) IsIdentity() bool {
	return len(s.steps) == 0
}

// Resolve evaluates the selector against root.
//
// Direct addressing is strict: a missing key or an out of range index aborts
// with an error, and so does a leading field on an array root. Once a step
// fans out over several values (an array field, [] or a slice) the remaining
// steps skip the values they cannot resolve. "." expands a root array into
// its elements. ".[i]" alone is the universal index and yields an empty
// result when i is out of range.
func (s *Selector) Resolve(root value.Value) ([]value.Value, error) {
	values, _, err := s.resolve(root)
	return values, err
}

// resolve also reports whether any step fanned out, in which case the values
// are independent results rather than one addressed value.
func (s *Selector) resolve(root value.Value) ([]value.Value, bool, error) {
	if s.IsIdentity() {
		if items, ok := root.AsArray(); ok {
			return items, true, nil
		}
		return []value.Value{root}, false, nil
	}

	first := s.steps[0]
	if len(s.steps) == 1 && first.kind == stepIndex {
		items, ok := root.AsArray()
		if !ok {
			return nil, false, qerr.InvalidQuery("cannot index %s with %s", root.TypeName(), first)
		}
		if i, ok := scan.Index(first.index, len(items)); ok {
			return []value.Value{items[i]}, false, nil
		}
		return []value.Value{}, false, nil
	}
	if first.kind == stepField && root.Kind() == value.KindArray {
		return nil, false, qerr.FieldNotFound(first.field)
	}

	current := []value.Value{root}
	lenient := false
	for _, st := range s.steps {
		next := make([]value.Value, 0, len(current))
		for _, v := range current {
			out, fanned, err := st.apply(v)
			if err != nil {
				if lenient {
					continue
				}
				return nil, false, err
			}
			next = append(next, out...)
			lenient = lenient || fanned
		}
		current = next
	}
	return current, lenient, nil
}

// apply resolves one step against v. fanned reports whether the step
// produced a collection of independent values.
func (st step) apply(v value.Value) (out []value.Value, fanned bool, err error) {
	switch st.kind {
	case stepField:
		if items, ok := v.AsArray(); ok {
			for _, item := range items {
				if field, ok := item.Get(st.field); ok {
					out = append(out, field)
				}
			}
			return out, true, nil
		}
		field, ok := v.Get(st.field)
		if !ok {
			return nil, false, qerr.FieldNotFound(st.field)
		}
		return []value.Value{field}, false, nil

	case stepIndex:
		items, ok := v.AsArray()
		if !ok {
			return nil, false, qerr.InvalidQuery("cannot index %s with %s", v.TypeName(), st)
		}
		i, ok := scan.Index(st.index, len(items))
		if !ok {
			return nil, false, qerr.IndexOutOfBounds(st.index)
		}
		return []value.Value{items[i]}, false, nil

	case stepExpand:
		items, ok := v.AsArray()
		if !ok {
			return nil, false, qerr.InvalidQuery("cannot iterate over %s", v.TypeName())
		}
		return items, true, nil

	default:
		items, ok := v.AsArray()
		if !ok {
			return nil, false, qerr.InvalidQuery("cannot slice %s", v.TypeName())
		}
		return scan.Apply(st.slice, items), true, nil
	}
}
