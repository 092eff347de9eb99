package number

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// ToFloat64 converts supported numeric values to float64.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int8:
		return float64(current), true
	case int16:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint:
		return float64(current), true
	case uint8:
		return float64(current), true
	case uint16:
		return float64(current), true
	case uint32:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ParseLiteral parses a query literal as a float. Surrounding whitespace is ignored.
func ParseLiteral(literal string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(literal), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// ParseIndex parses a possibly negative integer index.
func ParseIndex(literal string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(literal))
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// IsIntegral reports whether f has no fractional part.
func IsIntegral(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// RoundTenth rounds to one decimal place unless f is already integral.
func RoundTenth(f float64) float64 {
	if IsIntegral(f) {
		return f
	}
	return math.Round(f*10) / 10
}

// Format renders f without exponent or trailing zeros.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Clamp bounds v into [lo, hi].
func Clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
