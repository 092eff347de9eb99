// Package query evaluates hawk queries: a leading selector optionally
// followed by a pipeline of stages, e.g.
//
//	.users[] | select(.age > 30) | group_by(.team) | count
package query

import (
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/jacoelho/hawk/internal/hawk/aggregate"
	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/scan"
	"github.com/jacoelho/hawk/internal/hawk/stats"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

// Info carries the data an info stage asked the renderer to summarize.
type Info struct {
	Data []value.Value
}

// Result is the outcome of a query. Info is set when the pipeline contained an
// info stage; Values is then empty.
type Result struct {
	Values []value.Value
	Info   *Info
}

type Option func(*Engine)

// WithLogger sets the logger that receives debug traces of each phase.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine evaluates queries. It holds no per-query state and is safe for
// concurrent use.
type Engine struct {
	logger log.Logger
}

func New(opts ...Option) *Engine {
	e := &Engine{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs q against root with a default engine and returns the values.
func Evaluate(root value.Value, q string) ([]value.Value, error) {
	res, err := New().Run(root, q)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// Query is a parsed query.
type Query struct {
	Text     string
	selector resolver
	stages   []Stage
}

type resolver interface {
	resolve(root value.Value) ([]value.Value, bool, error)
}

// Parse splits q on top-level `|` and parses the selector and each stage.
func Parse(q string) (*Query, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, qerr.InvalidQuery("empty query")
	}

	segments, err := scan.SplitTrim(q, '|')
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, qerr.InvalidQuery("empty query")
	}
	if len(segments) < 2 && hasPipe(q) {
		return nil, qerr.InvalidQuery("pipeline needs a selector and at least one stage: %s", q)
	}

	parsed := &Query{Text: q}
	if strings.HasPrefix(segments[0], "$") {
		parsed.selector, err = ParsePath(segments[0])
	} else {
		parsed.selector, err = ParseSelector(segments[0])
	}
	if err != nil {
		return nil, err
	}

	for _, text := range segments[1:] {
		st, err := ParseStage(text)
		if err != nil {
			return nil, err
		}
		parsed.stages = append(parsed.stages, st)
	}
	return parsed, nil
}

// hasPipe reports a `|` at depth zero, outside quotes.
func hasPipe(q string) bool {
	parts, err := scan.Split(q, '|')
	return err == nil && len(parts) > 1
}

// Run parses and evaluates q against root.
func (e *Engine) Run(root value.Value, q string) (Result, error) {
	parsed, err := Parse(q)
	if err != nil {
		return Result{}, err
	}
	return e.Execute(root, parsed)
}

// Execute evaluates a parsed query against root.
func (e *Engine) Execute(root value.Value, q *Query) (Result, error) {
	values, fanned, err := q.selector.resolve(root)
	if err != nil {
		return Result{}, err
	}
	level.Debug(e.logger).Log("msg", "selector resolved", "query", q.Text, "values", len(values))

	// Only a directly addressed array is unwrapped into the working set.
	if len(q.stages) > 0 && len(values) == 1 && !fanned {
		if items, ok := values[0].AsArray(); ok {
			values = items
		}
	}

	set := workingSet{values: values}
	var info *Info
	for _, st := range q.stages {
		in := len(set.values)
		if st.Kind == StageInfo {
			info = &Info{Data: set.values}
			set = workingSet{}
		} else {
			set, err = e.apply(st, set)
			if err != nil {
				level.Debug(e.logger).Log("msg", "stage failed", "stage", st.Text, "err", err)
				return Result{}, err
			}
		}
		level.Debug(e.logger).Log("msg", "stage applied", "stage", st.Text, "kind", st.Kind, "in", in, "out", len(set.values), "grouped", set.tagged)
	}

	if set.values == nil {
		set.values = []value.Value{}
	}
	return Result{Values: set.values, Info: info}, nil
}

// workingSet is the list threaded between stages. tagged marks a set whose
// values are the groups produced by group_by.
type workingSet struct {
	values []value.Value
	groups []aggregate.Group
	tagged bool
}

func (w workingSet) grouped() ([]aggregate.Group, bool) {
	if w.tagged {
		return w.groups, true
	}
	return aggregate.Detect(w.values)
}

func (e *Engine) apply(st Stage, set workingSet) (workingSet, error) {
	switch st.Kind {
	case StageSelect:
		out := make([]value.Value, 0, len(set.values))
		for _, v := range set.values {
			if st.condition.Match(v) {
				out = append(out, v)
			}
		}
		return workingSet{values: out}, nil

	case StageMap:
		out := make([]value.Value, 0, len(set.values))
		for _, v := range set.values {
			mapped, err := st.mapper.apply(v)
			if err != nil {
				continue
			}
			out = append(out, mapped)
		}
		return workingSet{values: out}, nil

	case StageSelectFields:
		out := make([]value.Value, 0, len(set.values))
		for _, v := range set.values {
			projected, err := selectFields(v, st.fields)
			if err != nil {
				return workingSet{}, err
			}
			out = append(out, projected)
		}
		return workingSet{values: out}, nil

	case StageGroupBy:
		groups := aggregate.GroupBy(set.values, st.field)
		return workingSet{values: aggregate.Values(groups), groups: groups, tagged: true}, nil

	case StageAggregate:
		if groups, ok := set.grouped(); ok {
			return workingSet{values: st.aggregate.PerGroup(groups)}, nil
		}
		return workingSet{values: []value.Value{st.aggregate.Over(set.values)}}, nil

	case StageStats:
		return workingSet{values: applyStats(st, set.values)}, nil

	case StageIndex:
		return workingSet{values: applyIndex(st, set)}, nil

	default:
		return workingSet{}, qerr.InvalidQuery("unsupported stage: %s", st.Text)
	}
}

func selectFields(v value.Value, fields []string) (value.Value, error) {
	obj, ok := v.AsObject()
	if !ok {
		return value.Value{}, qerr.InvalidQuery("select_fields needs objects, got: %s", v.TypeName())
	}

	projected := value.NewObject()
	for _, field := range fields {
		if fv, ok := obj.Get(field); ok {
			projected.Set(field, fv)
		}
	}
	return value.FromObject(projected), nil
}

func applyStats(st Stage, values []value.Value) []value.Value {
	switch st.stat {
	case stats.OpUnique:
		return stats.Unique(values, st.field)
	case stats.OpSort:
		return stats.Sort(values, st.field)
	case stats.OpMedian:
		return []value.Value{stats.Median(values, st.field)}
	case stats.OpStddev:
		return []value.Value{stats.Stddev(values, st.field)}
	default:
		return []value.Value{stats.Length(values)}
	}
}

// applyIndex is the universal .[...] stage. A single index never fails: out of
// range yields nothing. A slice applies to each group's items when the set is
// grouped and to the set itself otherwise. .[] flattens nested arrays by one level.
func applyIndex(st Stage, set workingSet) []value.Value {
	switch st.indexKind {
	case indexExpand:
		out := make([]value.Value, 0, len(set.values))
		for _, v := range set.values {
			if items, ok := v.AsArray(); ok {
				out = append(out, items...)
				continue
			}
			out = append(out, v)
		}
		return out

	case indexSingle:
		if i, ok := scan.Index(st.index, len(set.values)); ok {
			return []value.Value{set.values[i]}
		}
		return []value.Value{}

	default:
		if groups, ok := set.grouped(); ok {
			var out []value.Value
			for _, g := range groups {
				out = append(out, scan.Apply(st.slice, g.Items)...)
			}
			return out
		}
		return scan.Apply(st.slice, set.values)
	}
}
