// Package output renders query results as JSON, YAML, an aligned table or a
// plain list, and prints the summary requested by the info stage.
package output

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrNotTable      = errors.New("cannot display as table: data is not an object array")
)

// Format is the requested output format.
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatTable
	FormatList
	FormatYAML
)

var formatNames = map[Format]string{
	FormatAuto:  "auto",
	FormatJSON:  "json",
	FormatTable: "table",
	FormatList:  "list",
	FormatYAML:  "yaml",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Set implements flag.Value.
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for format, name := range formatNames {
		if name == needle {
			return format, nil
		}
	}
	return FormatAuto, fmt.Errorf("%w: %q (expected auto, json, table, list or yaml)", ErrUnknownFormat, s)
}
