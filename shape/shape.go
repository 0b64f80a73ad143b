// Package shape describes what a configuration destination expects:
// a scalar or one of the container kinds, plus the element type.
package shape

import (
	"reflect"
	"strings"
)

// Kind represents a destination kind
type Kind int

const (
	//Scalar single value destination
	Scalar Kind = iota
	//List ordered, index-accessible, typed slice
	List
	//NonGenericList untyped []interface{} slice, elements stay strings
	NonGenericList
	//GenericEnumerable restartable iter.Seq[T]
	GenericEnumerable
	//GenericCollection named slice type, e.g. type Ports []int
	GenericCollection
)

var kindNames = [...]string{"scalar", "list", "nonGenericList", "genericEnumerable", "genericCollection"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsContainer returns true for all non scalar kinds
func (k Kind) IsContainer() bool {
	return k != Scalar
}

// Shape represents destination shape
type Shape struct {
	Kind Kind
	Type reflect.Type
	Elem reflect.Type
}

// IsContainer returns true if shape is a container
func (s Shape) IsContainer() bool {
	return s.Kind.IsContainer()
}

func (s Shape) String() string {
	if s.Type == nil {
		return s.Kind.String()
	}
	return s.Kind.String() + "(" + s.Type.String() + ")"
}

var (
	byteType      = reflect.TypeOf(byte(0))
	interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
	boolType      = reflect.TypeOf(true)
)

// Of returns a shape for supplied type
func Of(t reflect.Type) Shape {
	if t == nil {
		return Shape{Kind: Scalar}
	}
	switch t.Kind() {
	case reflect.Slice:
		elem := t.Elem()
		if elem == byteType {
			return Shape{Kind: Scalar, Type: t}
		}
		if t.Name() != "" {
			return Shape{Kind: GenericCollection, Type: t, Elem: elem}
		}
		if elem.Kind() == reflect.Interface && elem.NumMethod() == 0 {
			return Shape{Kind: NonGenericList, Type: t, Elem: elem}
		}
		return Shape{Kind: List, Type: t, Elem: elem}
	case reflect.Func:
		if elem, ok := seqElem(t); ok {
			return Shape{Kind: GenericEnumerable, Type: t, Elem: elem}
		}
	}
	return Shape{Kind: Scalar, Type: t}
}

// seqElem detects iter.Seq[T] shaped functions: func(yield func(T) bool)
func seqElem(t reflect.Type) (reflect.Type, bool) {
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return nil, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 || yield.Out(0) != boolType {
		return nil, false
	}
	if name := t.Name(); name != "" && !strings.HasPrefix(name, "Seq[") {
		return nil, false
	}
	return yield.In(0), true
}

// IsInterface returns true for empty interface type
func IsInterface(t reflect.Type) bool {
	return t == interfaceType
}
