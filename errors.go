package activator

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrConstructorPanic is returned when a constructor panics
	ErrConstructorPanic = errors.New("constructor panicked")
	// ErrNilInstance is returned when a constructor returns nil pointer without error
	ErrNilInstance = errors.New("constructor returned nil instance")
	// ErrNotInitialized is returned for constructors or properties not created with NewConstructor or NewType
	ErrNotInitialized = errors.New("descriptor was not initialized")
)

// UnboundParamError reports a required parameter without entry or default
type UnboundParamError struct {
	Name string
}

func (e *UnboundParamError) Error() string {
	return "param " + strconv.Quote(e.Name) + " is unbound"
}

// ParamError reports parameter conversion failure
type ParamError struct {
	Name string
	Err  error
}

func (e *ParamError) Error() string {
	return "param " + strconv.Quote(e.Name) + ": " + e.Err.Error()
}

func (e *ParamError) Unwrap() error { return e.Err }

// NoViableConstructorError is returned when no candidate constructor is satisfiable
type NoViableConstructorError struct {
	Type       reflect.Type
	Candidates []*Binding
}

func (e *NoViableConstructorError) Error() string {
	builder := strings.Builder{}
	builder.WriteString("no viable constructor for ")
	builder.WriteString(typeName(e.Type))
	for i, candidate := range e.Candidates {
		if i == 0 {
			builder.WriteString(": ")
		} else {
			builder.WriteString("; ")
		}
		builder.WriteString(candidate.Constructor.String())
		if err := candidate.Err(); err != nil {
			builder.WriteString(" ")
			builder.WriteString(strings.ReplaceAll(err.Error(), "\n", ", "))
		}
	}
	return builder.String()
}

// Unwrap exposes every candidate failure
func (e *NoViableConstructorError) Unwrap() []error {
	var result []error
	for _, candidate := range e.Candidates {
		result = append(result, candidate.errs()...)
	}
	return result
}

// AmbiguousSelectionError is returned in strict mode when ranking leaves a tie
type AmbiguousSelectionError struct {
	Type       reflect.Type
	Candidates []*Constructor
}

func (e *AmbiguousSelectionError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, candidate := range e.Candidates {
		names = append(names, candidate.String())
	}
	return "ambiguous constructor selection for " + typeName(e.Type) + ": " + strings.Join(names, ", ")
}

// PropertyError reports property conversion failure
type PropertyError struct {
	Type     reflect.Type
	Property string
	Err      error
}

func (e *PropertyError) Error() string {
	return "failed to bind " + typeName(e.Type) + "." + e.Property + ": " + e.Err.Error()
}

func (e *PropertyError) Unwrap() error { return e.Err }

// ConstructorError wraps an error returned by a constructor
type ConstructorError struct {
	Type reflect.Type
	Err  error
}

func (e *ConstructorError) Error() string {
	return "failed to construct " + typeName(e.Type) + ": " + e.Err.Error()
}

func (e *ConstructorError) Unwrap() error { return e.Err }

// UnknownTypeError is returned when a named type is not registered
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return "unknown type " + strconv.Quote(e.Name)
}

// DuplicateTypeError is returned when a name is already registered
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return "type " + strconv.Quote(e.Name) + " already registered"
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
