package query

import (
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/aggregate"
	"github.com/jacoelho/hawk/internal/hawk/number"
	"github.com/jacoelho/hawk/internal/hawk/predicate"
	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/scan"
	"github.com/jacoelho/hawk/internal/hawk/stats"
	"github.com/jacoelho/hawk/internal/hawk/strops"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

// StageKind identifies what a pipeline stage does.
type StageKind int

const (
	StageSelect StageKind = iota
	StageMap
	StageSelectFields
	StageGroupBy
	StageAggregate
	StageStats
	StageInfo
	StageIndex
)

func (k StageKind) String() string {
	switch k {
	case StageSelect:
		return "select"
	case StageMap:
		return "map"
	case StageSelectFields:
		return "select_fields"
	case StageGroupBy:
		return "group_by"
	case StageAggregate:
		return "aggregate"
	case StageStats:
		return "stats"
	case StageInfo:
		return "info"
	case StageIndex:
		return "index"
	default:
		return "unknown"
	}
}

type indexKind int

const (
	indexExpand indexKind = iota
	indexSingle
	indexSlice
)

// Stage is one parsed `|`-separated unit of a pipeline. Only the fields that
// belong to Kind are set.
type Stage struct {
	Kind StageKind
	Text string

	condition *predicate.Condition
	mapper    *mapper
	fields    []string
	field     string
	aggregate aggregate.Aggregate
	stat      stats.Op

	indexKind indexKind
	index     int
	slice     scan.Slice
}

// ParseStage recognizes the stage syntax up front so that evaluation is a
// single switch over StageKind.
func ParseStage(text string) (Stage, error) {
	text = strings.TrimSpace(text)
	st := Stage{Text: text}

	if strings.HasPrefix(text, ".[") && strings.HasSuffix(text, "]") {
		return parseIndexStage(st, text[2:len(text)-1])
	}

	name, args, isCall := scan.Call(text)
	if !isCall {
		name = text
	}
	args = strings.TrimSpace(args)

	switch {
	case name == "select" && isCall:
		cond, err := predicate.Parse(args)
		if err != nil {
			return Stage{}, err
		}
		st.Kind = StageSelect
		st.condition = cond
		return st, nil

	case name == "map" && isCall:
		m, err := parseMapper(args)
		if err != nil {
			return Stage{}, err
		}
		st.Kind = StageMap
		st.mapper = m
		return st, nil

	case name == "select_fields" && isCall:
		fields, err := scan.SplitTrim(args, ',')
		if err != nil {
			return Stage{}, err
		}
		if len(fields) == 0 {
			return Stage{}, qerr.InvalidQuery("select_fields needs at least one field: %s", text)
		}
		for i, f := range fields {
			fields[i] = strings.TrimPrefix(scan.Unquote(f), ".")
		}
		st.Kind = StageSelectFields
		st.fields = fields
		return st, nil

	case name == "group_by" && isCall:
		if args == "" {
			return Stage{}, qerr.InvalidQuery("group_by needs a field: %s", text)
		}
		st.Kind = StageGroupBy
		st.field = args
		return st, nil

	case name == "info" && !isCall:
		st.Kind = StageInfo
		return st, nil
	}

	if f, ok := aggregate.ParseFunc(name); ok {
		if f == aggregate.FuncCount && isCall {
			return Stage{}, qerr.InvalidQuery("count takes no arguments: %s", text)
		}
		if isCall && args == "" {
			return Stage{}, qerr.InvalidQuery("%s() needs a field: %s", name, text)
		}
		st.Kind = StageAggregate
		st.aggregate = aggregate.Aggregate{Func: f, Field: args}
		return st, nil
	}

	if op, ok := stats.ParseOp(name); ok {
		if op == stats.OpLength && isCall {
			return Stage{}, qerr.InvalidQuery("length takes no arguments: %s", text)
		}
		if isCall && args == "" {
			return Stage{}, qerr.InvalidQuery("%s() needs a field: %s", name, text)
		}
		st.Kind = StageStats
		st.stat = op
		st.field = args
		return st, nil
	}

	return Stage{}, qerr.InvalidQuery("unsupported stage: %s", text)
}

func parseIndexStage(st Stage, content string) (Stage, error) {
	st.Kind = StageIndex
	content = strings.TrimSpace(content)

	switch {
	case content == "":
		st.indexKind = indexExpand
	case scan.IsSlice(content):
		slice, ok := scan.ParseSlice(content)
		if !ok {
			return Stage{}, qerr.InvalidQuery("invalid slice: %s", st.Text)
		}
		st.indexKind = indexSlice
		st.slice = slice
	default:
		index, ok := number.ParseIndex(content)
		if !ok {
			return Stage{}, qerr.InvalidQuery("invalid array index: %s", st.Text)
		}
		st.indexKind = indexSingle
		st.index = index
	}
	return st, nil
}

// mapper is the parsed argument of map(...).
type mapper struct {
	fields []string
	ops    strops.Pipeline
}

// parseMapper accepts `.f | ops...`, `. | ops...`, `.a, .b | ops...` and a
// bare `.f`, which projects the field.
func parseMapper(args string) (*mapper, error) {
	segments, err := scan.SplitTrim(args, '|')
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, qerr.InvalidQuery("map needs a field expression")
	}

	fields, err := scan.SplitTrim(segments[0], ',')
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if !strings.HasPrefix(f, ".") {
			return nil, qerr.InvalidQuery("map field must start with '.': %s", f)
		}
	}

	m := &mapper{fields: fields}
	if len(segments) > 1 {
		m.ops, err = strops.Compile(segments[1:]...)
		if err != nil {
			return nil, err
		}
	}
	if m.ops == nil && len(fields) > 1 {
		return nil, qerr.InvalidQuery("map over several fields needs an operation: %s", args)
	}
	return m, nil
}

// apply transforms one element. Each field is looked up, run through the
// operations and written back into a copy of the element.
func (m *mapper) apply(element value.Value) (value.Value, error) {
	if m.ops == nil {
		v, ok := value.Lookup(element, m.fields[0])
		if !ok {
			return value.Value{}, qerr.FieldNotFound(m.fields[0])
		}
		return v, nil
	}

	out := element
	for _, field := range m.fields {
		v, ok := value.Lookup(element, field)
		if !ok {
			return value.Value{}, qerr.FieldNotFound(field)
		}
		transformed, err := m.ops.Apply(v)
		if err != nil {
			return value.Value{}, err
		}
		out = value.Assign(out, field, transformed)
	}
	return out, nil
}
