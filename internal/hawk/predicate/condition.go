package predicate

import (
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/scan"
	"github.com/jacoelho/hawk/internal/hawk/strops"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

// Condition is a parsed select expression.
//
// The plain form compares a field with a literal: `.age > 30`. The pipeline form
// threads a field through string operations and ends with a predicate
// operation or a comparison: `.name | lower | starts_with("a")` or
// `.name | length >= 3`. Either form may be wrapped in `not (...)`.
type Condition struct {
	Negate  bool
	Field   string
	Ops     strops.Pipeline
	Compare *Comparison
}

// Parse parses the text between the parentheses of select(...).
func Parse(text string) (*Condition, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, qerr.InvalidQuery("empty select condition")
	}

	negate := false
	if rest, ok := cutNot(text); ok {
		if !scan.Enclosed(rest) {
			return nil, qerr.InvalidQuery("not requires parentheses around the condition: %s", text)
		}
		negate = true
		text = strings.TrimSpace(rest[1 : len(rest)-1])
	}

	segments, err := scan.SplitTrim(text, '|')
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, qerr.InvalidQuery("empty select condition")
	}

	var c *Condition
	if len(segments) == 1 {
		c, err = parsePlain(segments[0])
	} else {
		c, err = parsePipeline(segments)
	}
	if err != nil {
		return nil, err
	}
	c.Negate = negate
	return c, nil
}

// cutNot strips a leading "not" keyword; "nothing > 1" is a field, not a negation.
func cutNot(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, "not")
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '(' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func parsePlain(text string) (*Condition, error) {
	pos, token := scan.IndexAny(text, operatorTokens...)
	if pos < 0 {
		return nil, qerr.InvalidQuery("condition needs one of >, <, >=, <=, ==, !=: %s", text)
	}

	field := strings.TrimSpace(text[:pos])
	if field == "" {
		return nil, qerr.InvalidQuery("condition is missing a field: %s", text)
	}

	cmp, err := NewComparison(Operator(token), text[pos+len(token):])
	if err != nil {
		return nil, err
	}
	return &Condition{Field: field, Compare: &cmp}, nil
}

func parsePipeline(segments []string) (*Condition, error) {
	c := &Condition{Field: segments[0]}
	opsText := segments[1 : len(segments)-1]

	last := segments[len(segments)-1]
	if pos, token := scan.IndexAny(last, operatorTokens...); pos >= 0 {
		cmp, err := NewComparison(Operator(token), last[pos+len(token):])
		if err != nil {
			return nil, err
		}
		c.Compare = &cmp
		if head := strings.TrimSpace(last[:pos]); head != "" {
			opsText = append(opsText, head)
		}
	} else {
		op, err := strops.Parse(last)
		if err != nil {
			return nil, err
		}
		if !op.IsPredicate() {
			return nil, qerr.InvalidQuery("select pipeline must end with contains, starts_with, ends_with or a comparison: %s", last)
		}
		opsText = append(opsText, last)
	}

	if len(opsText) > 0 {
		ops, err := strops.Compile(opsText...)
		if err != nil {
			return nil, err
		}
		c.Ops = ops
	}
	return c, nil
}

// Evaluate reports whether element satisfies the condition. A missing field in
// the plain form is false; in the pipeline form it is an error, as is any
// failing string operation.
func (c *Condition) Evaluate(element value.Value) (bool, error) {
	actual, ok := value.Lookup(element, c.Field)
	if !ok {
		if c.Ops == nil {
			return c.Negate, nil
		}
		return false, qerr.FieldNotFound(c.Field)
	}

	result, err := c.evaluate(actual)
	if err != nil {
		return false, err
	}
	return result != c.Negate, nil
}

// Match is Evaluate with errors counted as a non-match.
func (c *Condition) Match(element value.Value) bool {
	ok, err := c.Evaluate(element)
	return err == nil && ok
}

func (c *Condition) evaluate(actual value.Value) (bool, error) {
	if c.Ops != nil {
		out, err := c.Ops.Apply(actual)
		if err != nil {
			return false, err
		}
		actual = out
	}

	if c.Compare != nil {
		return c.Compare.Evaluate(actual), nil
	}

	b, ok := actual.AsBool()
	if !ok {
		return false, qerr.StringOperation("condition did not produce a boolean, got: %s", actual.TypeName())
	}
	return b, nil
}
