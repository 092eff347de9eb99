package scan

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/hawk/internal/hawk/qerr"
)

func TestSplitTrim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		sep     byte
		want    []string
		wantErr bool
	}{
		{
			name: "pipeline",
			in:   ".users | select(.age > 26) | count",
			sep:  '|',
			want: []string{".users", "select(.age > 26)", "count"},
		},
		{
			name: "nested_pipe_kept",
			in:   `. | select(.name | contains("a")) | length`,
			sep:  '|',
			want: []string{".", `select(.name | contains("a"))`, "length"},
		},
		{
			name: "quoted_separator_kept",
			in:   `.a | contains("x|y")`,
			sep:  '|',
			want: []string{".a", `contains("x|y")`},
		},
		{
			name: "apostrophe_inside_word",
			in:   ".a | select(.n == O'Neil) | count",
			sep:  '|',
			want: []string{".a", "select(.n == O'Neil)", "count"},
		},
		{
			name: "apostrophe_inside_quoted_literal",
			in:   `.a | contains("it's|x") | length`,
			sep:  '|',
			want: []string{".a", `contains("it's|x")`, "length"},
		},
		{
			name: "empty_segments_dropped",
			in:   ".a || count |",
			sep:  '|',
			want: []string{".a", "count"},
		},
		{
			name: "bracket_separator_kept",
			in:   ".a[0,1], .b",
			sep:  ',',
			want: []string{".a[0,1]", ".b"},
		},
		{
			name: "commas",
			in:   `"a, b", 'c'`,
			sep:  ',',
			want: []string{`"a, b"`, `'c'`},
		},
		{name: "unclosed", in: ".a | select(.b > 1", sep: '|', wantErr: true},
		{name: "extra_close", in: ".a | count)", sep: '|', wantErr: true},
		{name: "crossed_brackets", in: ".a | select(.b[0)]", sep: '|', wantErr: true},
		{name: "unclosed_bracket", in: ".a[1 | count", sep: '|', wantErr: true},
		{name: "unterminated_quote", in: `.a | contains("x)`, sep: '|', wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SplitTrim(tt.in, tt.sep)
			if tt.wantErr {
				if !errors.Is(err, qerr.ErrInvalidQuery) {
					t.Fatalf("SplitTrim(%q) error = %v, want ErrInvalidQuery", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitTrim(%q) unexpected error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitTrim(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`"abc"`: "abc",
		`'abc'`: "abc",
		`"abc'`: `"abc'`,
		`abc`:   "abc",
		`"`:     `"`,
	}
	for in, want := range tests {
		if got := Unquote(in); got != want {
			t.Errorf("Unquote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCall(t *testing.T) {
	t.Parallel()

	name, args, ok := Call(`replace("a", "b")`)
	if !ok || name != "replace" || args != `"a", "b"` {
		t.Fatalf("Call() = (%q, %q, %v)", name, args, ok)
	}

	if _, _, ok := Call("upper"); ok {
		t.Fatal("Call(upper) ok = true, want false")
	}
}

func TestEnclosed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: `(.name == "Bob")`, want: true},
		{in: `((.a > 1))`, want: true},
		{in: `(.a) | (.b)`, want: false},
		{in: `(.a == ")")`, want: true},
		{in: `.a == 1`, want: false},
		{in: `(`, want: false},
		{in: `(.n == O'Neil)`, want: true},
		{in: `(.n == O'Neil) | (.b)`, want: false},
	}
	for _, tt := range tests {
		if got := Enclosed(tt.in); got != tt.want {
			t.Errorf("Enclosed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIndexAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		wantPos   int
		wantToken string
	}{
		{in: ".age >= 30", wantPos: 5, wantToken: ">="},
		{in: ".age > 30", wantPos: 5, wantToken: ">"},
		{in: `.name == "a>b"`, wantPos: 6, wantToken: "=="},
		{in: `"x>y"`, wantPos: -1, wantToken: ""},
		{in: `.n == O'Neil`, wantPos: 3, wantToken: "=="},
		{in: `.n'x > 1`, wantPos: 5, wantToken: ">"},
	}
	for _, tt := range tests {
		pos, token := IndexAny(tt.in, ">=", "<=", "==", "!=", ">", "<")
		if pos != tt.wantPos || token != tt.wantToken {
			t.Errorf("IndexAny(%q) = (%d, %q), want (%d, %q)", tt.in, pos, token, tt.wantPos, tt.wantToken)
		}
	}
}
