package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/exit"
	"github.com/jacoelho/hawk/internal/hawk/output"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

var (
	ErrNoArguments   = errors.New("no arguments provided")
	ErrNoQuery       = errors.New("no query specified")
	ErrInvalidQuery  = errors.New("query must start with '.' or '$'")
	ErrTooManyArgs   = errors.New("too many arguments")
	ErrInputNotFound = errors.New("input file not found")
	ErrInputIsDir    = errors.New("input file is a directory")
)

// Config represents the complete configuration for the hawk tool.
type Config struct {
	Query  string
	File   string // empty means stdin
	Format output.Format
	Debug  bool
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	query := strings.TrimSpace(c.Query)
	if query == "" {
		return ErrNoQuery
	}

	if !strings.HasPrefix(query, ".") && !strings.HasPrefix(query, "$") {
		return fmt.Errorf("%w, got: %s", ErrInvalidQuery, c.Query)
	}

	if c.File != "" {
		info, err := os.Stat(c.File)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInputNotFound, c.File, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %s", ErrInputIsDir, c.File)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help/version is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		format  = output.FormatAuto
		debug   = fs.Bool("debug", false, "Trace input detection and every pipeline stage on stderr")
		version bool
	)

	fs.Var(&format, "o", "Output format: auto, json, table, list or yaml")
	fs.Var(&format, "format", "Output format: auto, json, table, list or yaml")
	fs.BoolVar(&version, "v", false, "Show version information")
	fs.BoolVar(&version, "version", false, "Show version information")

	positional, err := parseInterspersed(fs, args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	if version {
		return nil, exit.Success(fmt.Sprintf("hawk %s", Version))
	}

	if len(positional) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoQuery, Usage())
	}
	if len(positional) > 2 {
		return nil, exit.Errorf("Error: %v: %s\n\n%s", ErrTooManyArgs, strings.Join(positional[2:], " "), Usage())
	}

	config := &Config{
		Query:  positional[0],
		Format: format,
		Debug:  *debug,
	}
	if len(positional) == 2 {
		config.File = positional[1]
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// parseInterspersed lets flags follow positional arguments. The flag package
// stops at the first non-flag, so parsing resumes after each positional.
// A literal "--" ends flag parsing.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}

		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}

		// fs.Parse consumed "--" itself when it was the stopping point
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}

		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `hawk - query JSON, YAML, CSV and text from the command line

Usage: hawk [options] <query> [file]

Reads from stdin when no file is given. Gzip and zstd input is decompressed
automatically.

Options:
  -o, --format FORMAT     Output format: auto, json, table, list, yaml (default: auto)
  --debug                 Trace input detection and every pipeline stage on stderr
  -h, --help              Show this help message
  -v, --version           Show version information

Query:
  .field.sub[0]           Field, index, expansion ([]) and slice ([1:3]) selectors
  $.store.book[*]         RFC 9535 JSONPath selector
  | select(.age > 30)     Keep elements matching a condition (==, !=, <, <=, >, >=, not)
  | map(.name | upper)    Apply string operations to a field
  | select_fields(a,b)    Keep only the named fields
  | group_by(.dept)       Group elements by a field
  | count, sum(.f), avg(.f), min(.f), max(.f)
  | unique, sort, median, stddev, length
  | .[0], .[1:3], .[]     Index, slice or flatten the working set
  | info                  Describe the data instead of printing it

Examples:
  hawk '.users | select(.age > 26)' users.json
  hawk '.users | group_by(.dept) | avg(.salary)' users.yaml
  hawk '.[] | map(.email | lower)' -o list people.csv
  cat logs.txt | hawk '. | select(. | contains("ERROR"))'`
}
