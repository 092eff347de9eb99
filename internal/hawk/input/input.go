// Package input turns raw bytes into a value.Value. It undoes gzip or zstd
// compression, detects the format and decodes JSON, YAML, CSV or plain text.
package input

import (
	"bytes"
	"errors"

	"github.com/jacoelho/hawk/internal/hawk/value"
)

var (
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrDecode           = errors.New("decode error")
)

// Format is the detected encoding of an input document.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCSV:
		return "csv"
	default:
		return "text"
	}
}

// Document is a decoded input together with what was detected about it.
type Document struct {
	Format     Format
	Compressed Compression
	Value      value.Value
}

// Decode decompresses raw if needed, detects its format and parses it.
func Decode(raw []byte) (Document, error) {
	compression := DetectCompression(raw)
	data, err := Decompress(raw, compression)
	if err != nil {
		return Document{}, err
	}

	format := Detect(data)
	v, err := Parse(data, format)
	if err != nil {
		return Document{}, err
	}
	return Document{Format: format, Compressed: compression, Value: v}, nil
}

// Parse decodes data as format.
func Parse(data []byte, format Format) (value.Value, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatCSV:
		return ParseCSV(data)
	default:
		return ParseText(data), nil
	}
}

// Detect picks the first matching format: JSON, then CSV, then YAML, falling
// back to text.
func Detect(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return FormatText
	case isJSON(trimmed):
		return FormatJSON
	case isCSV(trimmed):
		return FormatCSV
	case isYAML(trimmed):
		return FormatYAML
	default:
		return FormatText
	}
}
