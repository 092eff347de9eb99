package predicate

import (
	"errors"
	"testing"

	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

func TestComparisonEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		op      Operator
		literal string
		actual  value.Value
		want    bool
	}{
		{name: "greater_than", op: OpGreaterThan, literal: "26", actual: value.Number(30), want: true},
		{name: "greater_than_equal_values", op: OpGreaterThan, literal: "30", actual: value.Number(30), want: false},
		{name: "greater_than_or_equal", op: OpGreaterThanOrEqual, literal: "30", actual: value.Number(30), want: true},
		{name: "less_than", op: OpLessThan, literal: "2.5", actual: value.Number(2), want: true},
		{name: "less_than_or_equal", op: OpLessThanOrEqual, literal: "1", actual: value.Number(2), want: false},
		{name: "ordering_on_string_is_false", op: OpGreaterThan, literal: "1", actual: value.String("5"), want: false},
		{name: "equals_string_quoted", op: OpEquals, literal: `"Bob"`, actual: value.String("Bob"), want: true},
		{name: "equals_string_single_quoted", op: OpEquals, literal: `'Bob'`, actual: value.String("Bob"), want: true},
		{name: "equals_number", op: OpEquals, literal: "25", actual: value.Number(25), want: true},
		{name: "equals_number_bad_literal", op: OpEquals, literal: "abc", actual: value.Number(25), want: false},
		{name: "equals_bool", op: OpEquals, literal: "true", actual: value.Bool(true), want: true},
		{name: "equals_bool_false", op: OpEquals, literal: "false", actual: value.Bool(true), want: false},
		{name: "equals_null_is_false", op: OpEquals, literal: "null", actual: value.Null(), want: false},
		{name: "not_equals", op: OpNotEquals, literal: `"Bob"`, actual: value.String("Alice"), want: true},
		{name: "not_equals_null_is_true", op: OpNotEquals, literal: "null", actual: value.Null(), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewComparison(tt.op, tt.literal)
			if err != nil {
				t.Fatalf("NewComparison() error = %v", err)
			}
			if got := c.Evaluate(tt.actual); got != tt.want {
				t.Fatalf("Evaluate(%v) = %v, want %v", tt.actual, got, tt.want)
			}
		})
	}
}

func TestNewComparisonErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewComparison(OpGreaterThan, "abc"); !errors.Is(err, qerr.ErrNumericParse) {
		t.Fatalf("NewComparison(>, abc) error = %v, want %v", err, qerr.ErrNumericParse)
	}
	if _, err := NewComparison(Operator("=~"), "a"); !errors.Is(err, qerr.ErrInvalidQuery) {
		t.Fatalf("NewComparison(=~) error = %v, want %v", err, qerr.ErrInvalidQuery)
	}
}

func TestConditionMatch(t *testing.T) {
	t.Parallel()

	alice := value.ObjectOf("name", "Alice", "age", 30, "active", true, "meta", value.ObjectOf("team", "core"))
	bob := value.ObjectOf("name", "Bob", "age", 25, "active", false)

	tests := []struct {
		name    string
		cond    string
		element value.Value
		want    bool
	}{
		{name: "plain_greater", cond: ".age > 26", element: alice, want: true},
		{name: "plain_greater_false", cond: ".age > 26", element: bob, want: false},
		{name: "plain_without_spaces", cond: ".age>=30", element: alice, want: true},
		{name: "plain_equals_string", cond: `.name == "Bob"`, element: bob, want: true},
		{name: "plain_field_without_dot", cond: `name == "Bob"`, element: bob, want: true},
		{name: "plain_bool", cond: ".active == true", element: alice, want: true},
		{name: "plain_nested_field", cond: `.meta.team == "core"`, element: alice, want: true},
		{name: "plain_missing_field", cond: ".salary > 1", element: alice, want: false},
		{name: "plain_missing_field_not_equals", cond: `.salary != "x"`, element: alice, want: false},
		{name: "quoted_operator_in_literal", cond: `.name == "a>b"`, element: value.ObjectOf("name", "a>b"), want: true},
		{name: "not", cond: `not (.name == "Bob")`, element: alice, want: true},
		{name: "not_excludes", cond: `not (.name == "Bob")`, element: bob, want: false},
		{name: "not_without_space", cond: `not(.age > 26)`, element: bob, want: true},
		{name: "pipeline_contains", cond: `.name | lower | contains("ali")`, element: alice, want: true},
		{name: "pipeline_or_pattern", cond: `.name | starts_with("X|B")`, element: bob, want: true},
		{name: "pipeline_comparison", cond: `.name | upper == "BOB"`, element: bob, want: true},
		{name: "pipeline_comparison_segment", cond: `.name | upper | == "BOB"`, element: bob, want: true},
		{name: "pipeline_length", cond: `.name | length >= 5`, element: alice, want: true},
		{name: "pipeline_not", cond: `not (.name | ends_with("b"))`, element: alice, want: true},
		{name: "pipeline_whole_element", cond: `. | contains("ll")`, element: value.String("hello"), want: true},
		{name: "pipeline_type_error_is_false", cond: `.age | contains("3")`, element: alice, want: false},
		{name: "pipeline_missing_field_is_false", cond: `.nick | contains("a")`, element: alice, want: false},
		{name: "apostrophe_in_bare_literal", cond: ".name == O'Neil", element: value.ObjectOf("name", "O'Neil"), want: true},
		{name: "apostrophe_in_bare_literal_mismatch", cond: ".name == O'Neil", element: bob, want: false},
		{name: "field_named_like_keyword", cond: "nothing > 1", element: value.ObjectOf("nothing", 2), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := Parse(tt.cond)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.cond, err)
			}
			if got := c.Match(tt.element); got != tt.want {
				t.Fatalf("Match(%v) = %v, want %v", tt.element, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cond string
		want error
	}{
		{name: "empty", cond: "  ", want: qerr.ErrInvalidQuery},
		{name: "no_operator", cond: ".age", want: qerr.ErrInvalidQuery},
		{name: "missing_field", cond: "> 3", want: qerr.ErrInvalidQuery},
		{name: "not_without_parentheses", cond: `not .name == "Bob"`, want: qerr.ErrInvalidQuery},
		{name: "not_partial_parentheses", cond: `not (.a == 1) | (.b == 2)`, want: qerr.ErrInvalidQuery},
		{name: "ordering_non_numeric", cond: ".age > old", want: qerr.ErrNumericParse},
		{name: "pipeline_not_predicate", cond: ".name | upper", want: qerr.ErrInvalidQuery},
		{name: "pipeline_unknown_op", cond: ".name | shout | contains(\"a\")", want: qerr.ErrStringOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Parse(tt.cond); !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.cond, err, tt.want)
			}
		})
	}
}

func TestEvaluateReportsPipelineErrors(t *testing.T) {
	t.Parallel()

	c, err := Parse(`.age | upper | contains("3")`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, err = c.Evaluate(value.ObjectOf("age", 30))
	if !errors.Is(err, qerr.ErrStringOperation) {
		t.Fatalf("Evaluate() error = %v, want %v", err, qerr.ErrStringOperation)
	}
}
