package number

import (
	"encoding/json"
	"testing"
)

func TestToFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		ok    bool
		want  float64
	}{
		{name: "int", input: int(10), ok: true, want: 10},
		{name: "uint64", input: uint64(7), ok: true, want: 7},
		{name: "float64", input: 12.5, ok: true, want: 12.5},
		{name: "json_number", input: json.Number("42"), ok: true, want: 42},
		{name: "non_numeric", input: "x", ok: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ToFloat64(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ToFloat64(%v) value = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundTenth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{in: 15, want: 15},
		{in: 10.0 / 3.0, want: 3.3},
		{in: 2.25, want: 2.3},
		{in: -1.44, want: -1.4},
	}

	for _, tt := range tests {
		if got := RoundTenth(tt.in); got != tt.want {
			t.Errorf("RoundTenth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	if got, ok := ParseLiteral(" 26 "); !ok || got != 26 {
		t.Fatalf("ParseLiteral(\" 26 \") = (%v, %v), want (26, true)", got, ok)
	}
	if _, ok := ParseLiteral(`"x"`); ok {
		t.Fatal("ParseLiteral(\"x\") expected failure")
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if got := Format(30); got != "30" {
		t.Errorf("Format(30) = %q, want %q", got, "30")
	}
	if got := Format(1.5); got != "1.5" {
		t.Errorf("Format(1.5) = %q, want %q", got, "1.5")
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := Clamp(-3, 0, 5); got != 0 {
		t.Errorf("Clamp(-3, 0, 5) = %d, want 0", got)
	}
	if got := Clamp(9, 0, 5); got != 5 {
		t.Errorf("Clamp(9, 0, 5) = %d, want 5", got)
	}
	if got := Clamp(2, 0, 5); got != 2 {
		t.Errorf("Clamp(2, 0, 5) = %d, want 2", got)
	}
}
