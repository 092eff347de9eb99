package scan

import (
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/number"
)

// Slice is a parsed "start:end" range. Nil bounds mean "from the beginning"
// and "to the end"; negative bounds count from the end.
type Slice struct {
	Start *int
	End   *int
}

// IsSlice reports whether bracket content uses slice syntax.
func IsSlice(s string) bool {
	return strings.Contains(s, ":")
}

// ParseSlice parses "start:end" where either bound may be omitted.
func ParseSlice(s string) (Slice, bool) {
	lo, hi, found := strings.Cut(s, ":")
	if !found || strings.Contains(hi, ":") {
		return Slice{}, false
	}

	var out Slice
	if lo = strings.TrimSpace(lo); lo != "" {
		n, ok := number.ParseIndex(lo)
		if !ok {
			return Slice{}, false
		}
		out.Start = &n
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		n, ok := number.ParseIndex(hi)
		if !ok {
			return Slice{}, false
		}
		out.End = &n
	}
	return out, true
}

// Bounds resolves the slice against a sequence of length n. The result always
// satisfies 0 <= lo <= hi <= n; an empty range has lo == hi.
func (s Slice) Bounds(n int) (lo, hi int) {
	lo, hi = 0, n
	if s.Start != nil {
		lo = resolve(*s.Start, n)
	}
	if s.End != nil {
		hi = resolve(*s.End, n)
	}
	if lo >= hi {
		return lo, lo
	}
	return lo, hi
}

func resolve(i, n int) int {
	if i < 0 {
		i += n
	}
	return number.Clamp(i, 0, n)
}

// Apply returns the elements of items selected by s.
func Apply[T any](s Slice, items []T) []T {
	lo, hi := s.Bounds(len(items))
	return items[lo:hi]
}

// Index resolves a possibly negative index against length n.
func Index(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
