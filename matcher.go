package activator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/viant/activator/conv"
	"github.com/viant/activator/entry"
	"github.com/viant/activator/shape"
	"github.com/viant/tagly/format/text"
)

// ErrSequenceForScalar is returned when a multi item sequence is supplied for a scalar
var ErrSequenceForScalar = errors.New("sequence with more than one item supplied for scalar")

// Binding represents constructor parameter binding result
type Binding struct {
	Constructor *Constructor
	Args        []reflect.Value
	// Bound counts params bound from entries
	Bound int
	// Defaulted counts optional params bound with default or zero value
	Defaulted int
	Unbound   []string
	Failures  []error

	consumedNames      map[string]bool
	consumedPositional map[int]bool
}

// Satisfiable returns true when every param is bound and no conversion failed
func (b *Binding) Satisfiable() bool {
	return len(b.Unbound) == 0 && len(b.Failures) == 0
}

// Consumed returns names of entries consumed by constructor params
func (b *Binding) Consumed() map[string]bool {
	result := make(map[string]bool, len(b.consumedNames))
	for name := range b.consumedNames {
		result[name] = true
	}
	return result
}

// ConsumedPositional returns set indexes of positional entries consumed by constructor params
func (b *Binding) ConsumedPositional() []int {
	result := make([]int, 0, len(b.consumedPositional))
	for index := range b.consumedPositional {
		result = append(result, index)
	}
	sort.Ints(result)
	return result
}

// Err returns joined binding errors or nil
func (b *Binding) Err() error {
	return errors.Join(b.errs()...)
}

func (b *Binding) errs() []error {
	result := append([]error{}, b.Failures...)
	for _, name := range b.Unbound {
		result = append(result, &UnboundParamError{Name: name})
	}
	return result
}

func newBinding(ctor *Constructor) *Binding {
	return &Binding{
		Constructor:        ctor,
		Args:               make([]reflect.Value, len(ctor.Params)),
		consumedNames:      map[string]bool{},
		consumedPositional: map[int]bool{},
	}
}

// Match binds entries to constructor params in declaration order.
// A param is bound by a named entry, then container params take the first unconsumed
// positional entry, then optional params take default, otherwise param stays unbound.
func (a *Activator) Match(set entry.Set, ctor *Constructor) *Binding {
	binding := newBinding(ctor)
	if !ctor.initialized() {
		binding.Failures = append(binding.Failures, ErrNotInitialized)
		return binding
	}
	positional := set.Positional()
	next := 0
	for i := range ctor.Params {
		param := &ctor.Params[i]
		paramShape := *param.Shape
		if named := a.lookup(set, param.Name); named != nil && !binding.consumedNames[named.Name] {
			if value, ok, err := a.bindNamed(named, paramShape); ok {
				binding.consumedNames[named.Name] = true
				if err != nil {
					binding.fail(i, param, err)
					continue
				}
				binding.Args[i] = value
				binding.Bound++
				continue
			}
		}
		if paramShape.IsContainer() && next < len(positional) {
			var raw []string
			for ; next < len(positional); next++ {
				index := positional[next]
				binding.consumedPositional[index] = true
				raw = append(raw, set[index].Texts()...)
				if !a.options.aggregate {
					next++
					break
				}
			}
			value, err := a.options.converter.Build(raw, paramShape)
			if err != nil {
				binding.fail(i, param, err)
				continue
			}
			binding.Args[i] = value
			binding.Bound++
			continue
		}
		if param.Optional {
			value, err := a.defaultValue(param)
			if err != nil {
				binding.fail(i, param, err)
				continue
			}
			binding.Args[i] = value
			binding.Defaulted++
			continue
		}
		binding.Args[i] = reflect.Zero(paramShape.Type)
		binding.Unbound = append(binding.Unbound, param.Name)
	}
	return binding
}

func (b *Binding) fail(i int, param *Param, err error) {
	b.Args[i] = reflect.Zero(param.Shape.Type)
	b.Failures = append(b.Failures, &ParamError{Name: param.Name, Err: err})
}

// bindNamed converts named entry, ok is false when entry does not apply to the shape
func (a *Activator) bindNamed(named *entry.Entry, aShape shape.Shape) (reflect.Value, bool, error) {
	if aShape.IsContainer() {
		if !named.Sequence {
			return reflect.Value{}, false, nil
		}
		value, err := a.options.converter.Build(named.Items, aShape)
		return value, true, err
	}
	value, err := a.convertScalar(named, aShape.Type)
	return value, true, err
}

func (a *Activator) convertScalar(named *entry.Entry, destType reflect.Type, opts ...conv.ConvertOption) (reflect.Value, error) {
	raw := named.Value
	if named.Sequence {
		if len(named.Items) != 1 {
			return reflect.Value{}, &conv.ConversionError{Value: named.String(), Type: destType, Err: ErrSequenceForScalar}
		}
		raw = named.Items[0]
	}
	return a.options.converter.Convert(raw, destType, opts...)
}

func (a *Activator) defaultValue(param *Param) (reflect.Value, error) {
	destType := param.Shape.Type
	if !param.HasDefault || param.Default == nil {
		return reflect.Zero(destType), nil
	}
	value := reflect.ValueOf(param.Default)
	switch {
	case value.Type().AssignableTo(destType):
		result := reflect.New(destType).Elem()
		result.Set(value)
		return result, nil
	case value.Kind() == reflect.String:
		if param.Shape.IsContainer() {
			return a.options.converter.Build(conv.Split(value.String()), *param.Shape)
		}
		return a.options.converter.Convert(value.String(), destType)
	case convertible(value.Type(), destType):
		return value.Convert(destType), nil
	}
	return reflect.Value{}, fmt.Errorf("default %T is not assignable to %v", param.Default, destType)
}

// lookup finds named entry: exact, then case folded, then case format normalized when configured
func (a *Activator) lookup(set entry.Set, name string) *entry.Entry {
	if candidate := set.Lookup(name, a.options.caseInsensitive); candidate != nil {
		return candidate
	}
	if !a.options.nameFormat.IsDefined() {
		return nil
	}
	normalized := normalizeName(name, a.options.nameFormat)
	for _, candidate := range set {
		if candidate.IsPositional() {
			continue
		}
		if normalizeName(candidate.Name, a.options.nameFormat) == normalized {
			return candidate
		}
	}
	return nil
}

func normalizeName(name string, caseFormat text.CaseFormat) string {
	return text.DetectCaseFormat(name).Format(name, caseFormat)
}

// convertible excludes numeric to string conversion, it yields a rune not a number text
func convertible(from, to reflect.Type) bool {
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		return false
	}
	return from.ConvertibleTo(to)
}
