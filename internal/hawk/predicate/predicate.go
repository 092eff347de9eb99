// Package predicate parses and evaluates the conditions accepted by select.
package predicate

import (
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/number"
	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/scan"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

type Operator string

const (
	OpGreaterThan        Operator = ">"
	OpLessThan           Operator = "<"
	OpGreaterThanOrEqual Operator = ">="
	OpLessThanOrEqual    Operator = "<="
	OpEquals             Operator = "=="
	OpNotEquals          Operator = "!="
)

// operatorTokens lists two-character operators before their one-character prefixes.
var operatorTokens = []string{
	string(OpGreaterThanOrEqual),
	string(OpLessThanOrEqual),
	string(OpEquals),
	string(OpNotEquals),
	string(OpGreaterThan),
	string(OpLessThan),
}

type operationFunc func(actual value.Value, c Comparison) bool

var operations = map[Operator]operationFunc{
	OpGreaterThan:        ordered(func(a, b float64) bool { return a > b }),
	OpLessThan:           ordered(func(a, b float64) bool { return a < b }),
	OpGreaterThanOrEqual: ordered(func(a, b float64) bool { return a >= b }),
	OpLessThanOrEqual:    ordered(func(a, b float64) bool { return a <= b }),
	OpEquals:             equalValues,
	OpNotEquals:          notEqualValues,
}

// IsOrdering reports whether op needs a numeric literal.
func (op Operator) IsOrdering() bool {
	switch op {
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return true
	default:
		return false
	}
}

// Comparison is the right-hand side of a condition: an operator and its literal.
type Comparison struct {
	Op      Operator
	Literal string

	number  float64
	numeric bool
}

// NewComparison parses the literal once. Ordering operators reject a literal
// that is not a number.
func NewComparison(op Operator, literal string) (Comparison, error) {
	if _, ok := operations[op]; !ok {
		return Comparison{}, qerr.InvalidQuery("unsupported operator %q", op)
	}

	literal = scan.Unquote(strings.TrimSpace(literal))
	c := Comparison{Op: op, Literal: literal}
	c.number, c.numeric = number.ParseLiteral(literal)

	if op.IsOrdering() && !c.numeric {
		return Comparison{}, qerr.NumericParse(literal)
	}
	return c, nil
}

// Evaluate applies the comparison to actual.
func (c Comparison) Evaluate(actual value.Value) bool {
	return operations[c.Op](actual, c)
}

// ordered compares numbers only; any other kind of value is false.
func ordered(cmp func(a, b float64) bool) operationFunc {
	return func(actual value.Value, c Comparison) bool {
		n, ok := actual.AsNumber()
		if !ok || !c.numeric {
			return false
		}
		return cmp(n, c.number)
	}
}

func notEqualValues(actual value.Value, c Comparison) bool {
	return !equalValues(actual, c)
}

func equalValues(actual value.Value, c Comparison) bool {
	switch actual.Kind() {
	case value.KindString:
		s, _ := actual.AsString()
		return s == c.Literal
	case value.KindNumber:
		n, _ := actual.AsNumber()
		return c.numeric && n == c.number
	case value.KindBool:
		b, _ := actual.AsBool()
		return (c.Literal == "true" && b) || (c.Literal == "false" && !b)
	default:
		return false
	}
}
