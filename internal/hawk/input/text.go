package input

import (
	"bufio"
	"bytes"

	"github.com/jacoelho/hawk/internal/hawk/value"
)

// ParseText returns one string per line. Empty input is an empty array.
func ParseText(data []byte) value.Value {
	var lines []value.Value
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for scanner.Scan() {
		lines = append(lines, value.String(scanner.Text()))
	}
	return value.Array(lines)
}
