package conv

import (
	"errors"
	"reflect"
	"strconv"
)

var (
	// ErrUnsupported is returned when no conversion handles a destination type
	ErrUnsupported = errors.New("unsupported destination type")

	// ErrNotContainer is returned when a sequence is built for a scalar shape
	ErrNotContainer = errors.New("destination is not a container")
)

// ConversionError is returned when raw text can not be converted into destination type
type ConversionError struct {
	Value string
	Type  reflect.Type
	Err   error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	typeName := "<nil>"
	if e.Type != nil {
		typeName = e.Type.String()
	}
	msg := "conv: cannot convert " + strconv.Quote(e.Value) + " to " + typeName
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns underlying error
func (e *ConversionError) Unwrap() error {
	return e.Err
}
