package execute

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/jacoelho/hawk/internal/hawk/config"
	"github.com/jacoelho/hawk/internal/hawk/output"
)

const usersJSON = `{"users":[{"name":"Alice","age":30},{"name":"Bob","age":25}]}`

func newTestRunner(t *testing.T, cfg *config.Config, stdin io.Reader) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	r, res := New(cfg)
	if res != nil {
		t.Fatalf("New() exit result = %+v, want nil", res)
	}

	var stdout, stderr bytes.Buffer
	r.SetInput(stdin)
	r.SetOutput(&stdout)
	r.SetErrorOutput(&stderr)
	return r, &stdout, &stderr
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write error = %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close error = %v", err)
	}
	return buf.Bytes()
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		format   output.Format
		stdin    []byte
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:    "filter_to_json",
			query:   ".users | select(.age > 26)",
			format:  output.FormatJSON,
			stdin:   []byte(usersJSON),
			wantOut: "[\n  {\n    \"name\": \"Alice\",\n    \"age\": 30\n  }\n]\n",
		},
		{
			name:    "csv_to_list",
			query:   ". | map(.name | upper)",
			format:  output.FormatList,
			stdin:   []byte("name,age\nalice,30\nbob,25\n"),
			wantOut: "{\"name\":\"ALICE\",\"age\":30}\n{\"name\":\"BOB\",\"age\":25}\n",
		},
		{
			name:    "gzip_input",
			query:   ".users | count",
			format:  output.FormatAuto,
			stdin:   gzipped(t, usersJSON),
			wantOut: "2\n",
		},
		{
			name:    "text_lines",
			query:   ". | select(. | contains(\"ERROR\"))",
			format:  output.FormatAuto,
			stdin:   []byte("INFO start\nERROR disk full\nINFO done\n"),
			wantOut: "ERROR disk full\n",
		},
		{
			name:    "empty_result_prints_nothing",
			query:   ".users | select(.age > 99)",
			format:  output.FormatAuto,
			stdin:   []byte(usersJSON),
			wantOut: "",
		},
		{
			name:    "info",
			query:   ".users | info",
			format:  output.FormatAuto,
			stdin:   []byte(usersJSON),
			wantOut: "=== Data Information ===\nTotal records: 2\nType: Object Array\nFields: 2\n\nField Details:\n  name            String     (e.g., \"Alice\")\n  age             Number     (e.g., 30)\n\nArray Fields:\n",
		},
		{
			name:     "missing_field",
			query:    ".accounts",
			format:   output.FormatAuto,
			stdin:    []byte(usersJSON),
			wantCode: 1,
			wantErr:  "Error: field not found: \"accounts\"\n",
		},
		{
			name:     "table_of_scalars",
			query:    ".users[].name",
			format:   output.FormatTable,
			stdin:    []byte(usersJSON),
			wantCode: 1,
			wantErr:  "cannot display as table",
		},
		{
			name:     "invalid_stage",
			query:    ".users | explode",
			format:   output.FormatAuto,
			stdin:    []byte(usersJSON),
			wantCode: 1,
			wantErr:  "invalid query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Query: tt.query, Format: tt.format}
			r, stdout, stderr := newTestRunner(t, cfg, bytes.NewReader(tt.stdin))

			if code := r.Run(context.Background()); code != tt.wantCode {
				t.Fatalf("Run() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if stdout.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestRunReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.yaml")
	data := "users:\n  - name: Alice\n    age: 30\n  - name: Bob\n    age: 25\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Query: ".users[0].name", File: path, Format: output.FormatAuto}
	r, stdout, stderr := newTestRunner(t, cfg, strings.NewReader("ignored"))

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, want 0 (stderr: %s)", code, stderr.String())
	}
	if got, want := stdout.String(), "Alice\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunDebugTrace(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Query: ".users | select(.age > 26) | count", Format: output.FormatAuto, Debug: true}
	r, stdout, stderr := newTestRunner(t, cfg, strings.NewReader(usersJSON))

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, want 0 (stderr: %s)", code, stderr.String())
	}
	if got, want := stdout.String(), "1\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	trace := stderr.String()
	for _, want := range []string{
		"run=" + r.runID,
		"level=debug",
		`msg="input decoded"`,
		"source=stdin",
		"compression=none",
		"format=json",
		`msg="selector resolved"`,
		"stage=count",
		"msg=rendering",
	} {
		if !strings.Contains(trace, want) {
			t.Errorf("trace = %q, want it to contain %q", trace, want)
		}
	}
}

func TestRunWithoutDebugIsQuiet(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Query: ".users | count", Format: output.FormatAuto}
	r, _, stderr := newTestRunner(t, cfg, strings.NewReader(usersJSON))

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestRunInterrupted(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	cfg := &config.Config{Query: ".", Format: output.FormatAuto}
	r, stdout, stderr := newTestRunner(t, cfg, pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := r.Run(ctx); code != 1 {
		t.Fatalf("Run() = %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), "interrupted") {
		t.Errorf("stderr = %q, want it to contain %q", stderr.String(), "interrupted")
	}
}

func TestNewRequiresConfig(t *testing.T) {
	t.Parallel()

	r, res := New(nil)
	if r != nil {
		t.Errorf("New(nil) runner = %v, want nil", r)
	}
	if res == nil || res.ExitCode != 1 {
		t.Errorf("New(nil) exit result = %+v, want exit code 1", res)
	}
}
