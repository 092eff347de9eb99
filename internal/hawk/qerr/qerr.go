// Package qerr holds the error kinds reported while interpreting a query.
// Every error returned by the interpreter wraps exactly one of the sentinels,
// so callers classify failures with errors.Is.
package qerr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery     = errors.New("invalid query")
	ErrFieldNotFound    = errors.New("field not found")
	ErrIndexOutOfBounds = errors.New("array index out of bounds")
	ErrStringOperation  = errors.New("string operation error")
	ErrNumericParse     = errors.New("numeric parse error")
)

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

func InvalidQuery(format string, args ...any) error {
	return wrap(ErrInvalidQuery, format, args...)
}

func FieldNotFound(field string) error {
	return wrap(ErrFieldNotFound, "%q", field)
}

func IndexOutOfBounds(index int) error {
	return wrap(ErrIndexOutOfBounds, "%d", index)
}

func StringOperation(format string, args ...any) error {
	return wrap(ErrStringOperation, format, args...)
}

func NumericParse(literal string) error {
	return wrap(ErrNumericParse, "%q is not a number", literal)
}
