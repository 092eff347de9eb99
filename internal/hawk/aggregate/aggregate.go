package aggregate

import (
	"github.com/jacoelho/hawk/internal/hawk/number"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

type Func string

const (
	FuncCount Func = "count"
	FuncSum   Func = "sum"
	FuncAvg   Func = "avg"
	FuncMin   Func = "min"
	FuncMax   Func = "max"
)

type reduceFunc func(nums []float64) value.Value

var reducers = map[Func]reduceFunc{
	FuncSum: func(nums []float64) value.Value {
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return value.Number(number.RoundTenth(total))
	},
	FuncAvg: func(nums []float64) value.Value {
		if len(nums) == 0 {
			return value.Null()
		}
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return value.Number(number.RoundTenth(total / float64(len(nums))))
	},
	FuncMin: extreme(func(candidate, current float64) bool { return candidate < current }),
	FuncMax: extreme(func(candidate, current float64) bool { return candidate > current }),
}

func extreme(better func(candidate, current float64) bool) reduceFunc {
	return func(nums []float64) value.Value {
		if len(nums) == 0 {
			return value.Null()
		}
		best := nums[0]
		for _, n := range nums[1:] {
			if better(n, best) {
				best = n
			}
		}
		return value.Number(best)
	}
}

// ParseFunc recognizes an aggregate name.
func ParseFunc(name string) (Func, bool) {
	f := Func(name)
	if f == FuncCount {
		return f, true
	}
	_, ok := reducers[f]
	return f, ok
}

// Aggregate is a parsed aggregate stage. An empty Field aggregates the
// elements themselves.
type Aggregate struct {
	Func  Func
	Field string
}

// Over aggregates a flat working set into a single value. Values that are
// missing or not numbers are ignored.
func (a Aggregate) Over(elements []value.Value) value.Value {
	if a.Func == FuncCount {
		return value.Number(float64(len(elements)))
	}
	return reducers[a.Func](a.numbers(elements))
}

// PerGroup aggregates each group into {"group": key, "<func>": result}.
func (a Aggregate) PerGroup(groups []Group) []value.Value {
	out := make([]value.Value, len(groups))
	for i, g := range groups {
		obj := value.NewObject()
		obj.Set(GroupKey, value.String(g.Key))
		obj.Set(string(a.Func), a.Over(g.Items))
		out[i] = value.FromObject(obj)
	}
	return out
}

func (a Aggregate) numbers(elements []value.Value) []float64 {
	nums := make([]float64, 0, len(elements))
	for _, element := range elements {
		v, ok := value.Lookup(element, a.Field)
		if !ok {
			continue
		}
		if n, ok := v.AsNumber(); ok {
			nums = append(nums, n)
		}
	}
	return nums
}
