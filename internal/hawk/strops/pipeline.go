package strops

import (
	"github.com/jacoelho/hawk/internal/hawk/qerr"
	"github.com/jacoelho/hawk/internal/hawk/value"
)

// Pipeline is an ordered chain of operations; each receives the previous result.
type Pipeline []Op

// Compile parses every operation up front so malformed chains fail before any
// element is evaluated.
func Compile(ops ...string) (Pipeline, error) {
	if len(ops) == 0 {
		return nil, qerr.StringOperation("empty operation pipeline")
	}

	pipeline := make(Pipeline, 0, len(ops))
	for _, text := range ops {
		op, err := Parse(text)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, op)
	}
	return pipeline, nil
}

// Apply threads v through every operation.
func (p Pipeline) Apply(v value.Value) (value.Value, error) {
	current := v
	for _, op := range p {
		next, err := op.Apply(current)
		if err != nil {
			return value.Value{}, err
		}
		current = next
	}
	return current, nil
}
