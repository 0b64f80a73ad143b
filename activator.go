// Package activator materializes Go values from untyped textual configuration entries.
//
// An entry set (see package entry) is matched against constructor parameters of a
// target type, the best ranked satisfiable constructor is called and the remaining
// named entries are assigned to struct fields.
package activator

import (
	"fmt"
	"reflect"

	"github.com/viant/activator/conv"
	"github.com/viant/activator/entry"
)

// Activator creates instances from entry sets, it is safe for concurrent use
type Activator struct {
	options *options
}

// Converter returns converter
func (a *Activator) Converter() *conv.Converter {
	return a.options.converter
}

// Registry returns named type registry
func (a *Activator) Registry() *Registry {
	return a.options.registry
}

// Activate selects constructor, calls it and binds remaining entries to properties,
// it returns pointer to the target type
func (a *Activator) Activate(desc TypeDescriptor, set entry.Set) (interface{}, error) {
	if desc == nil {
		return nil, fmt.Errorf("type descriptor was nil")
	}
	_, binding, err := a.Select(desc, set)
	if err != nil {
		return nil, err
	}
	instance, err := binding.Constructor.call(desc.Type(), binding.Args)
	if err != nil {
		return nil, &ConstructorError{Type: desc.Type(), Err: err}
	}
	result := instance.Interface()
	if err = a.BindProperties(result, desc, set, binding.Consumed()); err != nil {
		return nil, err
	}
	return result, nil
}

// ActivateNamed activates type registered under supplied name
func (a *Activator) ActivateNamed(name string, set entry.Set) (interface{}, error) {
	desc, ok := a.options.registry.Lookup(name)
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return a.Activate(desc, set)
}

// ActivateAs activates T with supplied constructors
func ActivateAs[T any](a *Activator, set entry.Set, ctors ...Constructor) (*T, error) {
	opts := make([]TypeOption, 0, len(ctors))
	for _, ctor := range ctors {
		opts = append(opts, WithConstructor(ctor.Fn, ctor.Params...))
	}
	desc, err := NewType(reflect.TypeFor[T](), opts...)
	if err != nil {
		return nil, err
	}
	result, err := a.Activate(desc, set)
	if err != nil {
		return nil, err
	}
	return result.(*T), nil
}

// New creates an activator
func New(opts ...Option) *Activator {
	return &Activator{options: newOptions(opts)}
}
