package query

import (
	"github.com/theory/jsonpath"

	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

// Path is a selector written as an RFC 9535 JSONPath expression, e.g.
// "$.users[?@.age > 30].name". Keys of objects it returns are sorted.
type Path struct {
	Text string
	path *jsonpath.Path
}

// ParsePath compiles a JSONPath selector.
func ParsePath(text string) (*Path, error) {
	path, err := jsonpath.Parse(text)
	if err != nil {
		return nil, qerr.InvalidQuery("invalid JSONPath %s: %v", text, err)
	}
	return &Path{Text: text, path: path}, nil
}

// Resolve returns every node the path selects, in document order.
func (p *Path) Resolve(root value.Value) ([]value.Value, error) {
	values, _, err := p.resolve(root)
	return values, err
}

// resolve reports a fan-out for every path that can select more than one node.
func (p *Path) resolve(root value.Value) ([]value.Value, bool, error) {
	nodes := p.path.Select(root.Interface())

	out := make([]value.Value, 0, len(nodes))
	for _, node := range nodes {
		v, err := value.FromAny(node)
		if err != nil {
			return nil, false, qerr.InvalidQuery("JSONPath %s: %v", p.Text, err)
		}
		out = append(out, v)
	}
	return out, !singular(p.Text), nil
}

// singular reports whether text only uses name and index segments, which
// address at most one node.
func singular(text string) bool {
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '*', '?', ':', ',':
			return false
		case '.':
			if i+1 < len(text) && text[i+1] == '.' {
				return false
			}
		}
	}
	return true
}
