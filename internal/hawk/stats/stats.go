// Package stats implements the unique, sort, median, stddev and length stages.
// Each operates on whole elements or, when a field is given, on that field.
package stats

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/dchest/siphash"

	"github.com/jacoelho/hawk/internal/hawk/value"
)

// Keys for the dedup hash. Collisions are resolved by comparing canonical forms.
const (
	hashKey0 = 0x6861776b2d756e69
	hashKey1 = 0x717565206b657973
)

type Op string

const (
	OpUnique Op = "unique"
	OpSort   Op = "sort"
	OpMedian Op = "median"
	OpStddev Op = "stddev"
	OpLength Op = "length"
)

var supportedOps = map[Op]struct{}{
	OpUnique: {},
	OpSort:   {},
	OpMedian: {},
	OpStddev: {},
	OpLength: {},
}

// ParseOp recognizes a statistics stage name.
func ParseOp(name string) (Op, bool) {
	op := Op(name)
	_, ok := supportedOps[op]
	return op, ok
}

// Unique returns the distinct elements, or distinct values of field, in
// first-seen order. A missing field counts as null.
func Unique(elements []value.Value, field string) []value.Value {
	buckets := make(map[uint64][]string)
	out := make([]value.Value, 0, len(elements))

	for _, element := range elements {
		v := extract(element, field)
		canonical := v.Canonical()
		sum := siphash.Hash(hashKey0, hashKey1, []byte(canonical))

		if slices.Contains(buckets[sum], canonical) {
			continue
		}
		buckets[sum] = append(buckets[sum], canonical)
		out = append(out, v)
	}
	return out
}

// Sort returns a stably sorted copy of elements. Without a field, values of the
// same kind compare naturally and mixed kinds order as number, string, boolean,
// null, array, object. With a field the elements are ordered by that field and
// a missing or null field sorts first.
func Sort(elements []value.Value, field string) []value.Value {
	out := slices.Clone(elements)
	if field == "" || field == "." {
		slices.SortStableFunc(out, Compare)
		return out
	}

	slices.SortStableFunc(out, func(a, b value.Value) int {
		return compareKeys(extract(a, field), extract(b, field))
	})
	return out
}

// Median of the numeric values; the mean of the middle pair for an even count.
// Null when there are no numbers.
func Median(elements []value.Value, field string) value.Value {
	nums := numbers(elements, field)
	if len(nums) == 0 {
		return value.Null()
	}

	slices.Sort(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 0 {
		return value.Number((nums[mid-1] + nums[mid]) / 2)
	}
	return value.Number(nums[mid])
}

// Stddev is the sample standard deviation; null for fewer than two numbers.
func Stddev(elements []value.Value, field string) value.Value {
	nums := numbers(elements, field)
	if len(nums) < 2 {
		return value.Null()
	}

	mean := 0.0
	for _, n := range nums {
		mean += n
	}
	mean /= float64(len(nums))

	variance := 0.0
	for _, n := range nums {
		variance += (n - mean) * (n - mean)
	}
	variance /= float64(len(nums) - 1)

	return value.Number(math.Sqrt(variance))
}

// Length counts the working set.
func Length(elements []value.Value) value.Value {
	return value.Number(float64(len(elements)))
}

// Compare orders two values; see Sort.
func Compare(a, b value.Value) int {
	if a.Kind() != b.Kind() {
		return cmp.Compare(rank(a.Kind()), rank(b.Kind()))
	}

	switch a.Kind() {
	case value.KindNumber:
		x, _ := a.AsNumber()
		y, _ := b.AsNumber()
		return cmp.Compare(x, y)
	case value.KindString:
		x, _ := a.AsString()
		y, _ := b.AsString()
		return strings.Compare(x, y)
	case value.KindBool:
		x, _ := a.AsBool()
		y, _ := b.AsBool()
		return compareBools(x, y)
	case value.KindNull:
		return 0
	default:
		return strings.Compare(a.Canonical(), b.Canonical())
	}
}

func compareKeys(a, b value.Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	default:
		return Compare(a, b)
	}
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func rank(k value.Kind) int {
	switch k {
	case value.KindNumber:
		return 0
	case value.KindString:
		return 1
	case value.KindBool:
		return 2
	case value.KindNull:
		return 3
	case value.KindArray:
		return 4
	default:
		return 5
	}
}

func extract(element value.Value, field string) value.Value {
	v, ok := value.Lookup(element, field)
	if !ok {
		return value.Null()
	}
	return v
}

func numbers(elements []value.Value, field string) []float64 {
	nums := make([]float64, 0, len(elements))
	for _, element := range elements {
		if n, ok := extract(element, field).AsNumber(); ok {
			nums = append(nums, n)
		}
	}
	return nums
}
