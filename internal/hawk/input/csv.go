package input

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/value"
)

const csvSampleLines = 5

// isCSV requires commas on the first line and a comma count within one of it
// on the following sample lines.
func isCSV(trimmed []byte) bool {
	lines := strings.SplitN(string(trimmed), "\n", csvSampleLines+1)
	if len(lines) > csvSampleLines {
		lines = lines[:csvSampleLines]
	}

	header := strings.Count(lines[0], ",")
	if header == 0 {
		return false
	}
	for _, line := range lines[1:] {
		diff := strings.Count(line, ",") - header
		if diff < -1 || diff > 1 {
			return false
		}
	}
	return true
}

// ParseCSV decodes a CSV document with a header row into an array of objects.
// Cell types are inferred with InferCell.
func ParseCSV(data []byte) (value.Value, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimSpace(data)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return value.Array(nil), nil
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: failed to read CSV header: %v", ErrDecode, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []value.Value
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: failed to read CSV record: %v", ErrDecode, err)
		}

		obj := value.NewObject()
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			obj.Set(header[i], InferCell(strings.TrimSpace(cell)))
		}
		records = append(records, value.FromObject(obj))
	}
	return value.Array(records), nil
}

// InferCell types a CSV cell: empty is null, true/false in any case is a
// boolean, numerals are numbers and everything else stays a string.
func InferCell(cell string) value.Value {
	if cell == "" {
		return value.Null()
	}
	switch strings.ToLower(cell) {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return value.Number(float64(n))
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return value.Number(f)
	}
	return value.String(cell)
}
