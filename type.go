package activator

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/activator/shape"
	"github.com/viant/activator/tags"
	"github.com/viant/activator/visitor"
	"github.com/viant/tagly/format"
	"github.com/viant/xunsafe"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ErrNotFunc is returned when a constructor is not a function
var ErrNotFunc = errors.New("constructor is not a func")

type (
	// TypeDescriptor exposes activation metadata of a target type
	TypeDescriptor interface {
		Type() reflect.Type
		Constructors() []*Constructor
		Properties() []*Property
	}

	// Param represents constructor parameter
	Param struct {
		Name       string
		Optional   bool
		HasDefault bool
		Default    interface{}
		Shape      *shape.Shape
	}

	// Constructor represents a function creating target type instance,
	// Fn returns T, *T, (T, error) or (*T, error)
	Constructor struct {
		Fn     interface{}
		Params []Param

		fn           reflect.Value
		returnsError bool
	}

	// Property represents writable struct field
	Property struct {
		Name       string
		Shape      shape.Shape
		TimeLayout string
		Index      int

		field *xunsafe.Field
	}

	// Type represents reflection derived type descriptor
	Type struct {
		rType        reflect.Type
		constructors []*Constructor
		properties   []*Property
		marker       *Marker
	}

	typeOptions struct {
		tagName      string
		constructors []Constructor
		decls        [][]string
	}

	// TypeOption represents type descriptor option
	TypeOption func(o *typeOptions)
)

// WithConstructor adds constructor with explicit parameters
func WithConstructor(fn interface{}, params ...Param) TypeOption {
	return func(o *typeOptions) {
		o.constructors = append(o.constructors, Constructor{Fn: fn, Params: params})
		o.decls = append(o.decls, nil)
	}
}

// WithConstructorDecl adds constructor with parameters declared as "name,optional,default=value" literals
func WithConstructorDecl(fn interface{}, decls ...string) TypeOption {
	return func(o *typeOptions) {
		o.constructors = append(o.constructors, Constructor{Fn: fn})
		if decls == nil {
			decls = []string{}
		}
		o.decls = append(o.decls, decls)
	}
}

// WithFieldTag overrides struct tag name used for properties, "config" by default
func WithFieldTag(tagName string) TypeOption {
	return func(o *typeOptions) {
		o.tagName = tagName
	}
}

// Type returns described type
func (t *Type) Type() reflect.Type {
	return t.rType
}

// Constructors returns constructors in declaration order
func (t *Type) Constructors() []*Constructor {
	return t.constructors
}

// Properties returns writable properties in field order
func (t *Type) Properties() []*Property {
	return t.properties
}

// Marker returns presence marker or nil
func (t *Type) Marker() *Marker {
	return t.marker
}

// Property returns property by name
func (t *Type) Property(name string) *Property {
	for _, candidate := range t.properties {
		if candidate.Name == name {
			return candidate
		}
	}
	return nil
}

// IsConfigured returns true if named property was set from an entry, instance has to be a pointer to the described type.
// Types without presence marker report every property as configured.
func (t *Type) IsConfigured(instance interface{}, name string) bool {
	prop := t.Property(name)
	if prop == nil {
		return false
	}
	if t.marker == nil {
		return true
	}
	return t.marker.IsSet(xunsafe.AsPointer(instance), t.marker.Index(t.rType.Field(prop.Index).Name))
}

// Set assigns value to the property of struct pointed by ptr
func (p *Property) Set(ptr unsafe.Pointer, value reflect.Value) {
	reflect.NewAt(p.Shape.Type, p.field.Pointer(ptr)).Elem().Set(value)
}

// Value returns property value of struct pointed by ptr
func (p *Property) Value(ptr unsafe.Pointer) interface{} {
	return p.field.Value(ptr)
}

// Implicit returns true for generated zero argument constructor
func (c *Constructor) Implicit() bool {
	return c.Fn == nil
}

func (c *Constructor) String() string {
	if c.Implicit() {
		return "new()"
	}
	text := "func("
	for i, param := range c.Params {
		if i > 0 {
			text += ", "
		}
		text += param.Name
		if param.Optional {
			text += "?"
		}
	}
	return text + ")"
}

func (c *Constructor) init(rType reflect.Type) error {
	fn := reflect.ValueOf(c.Fn)
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("%w: %T", ErrNotFunc, c.Fn)
	}
	fnType := fn.Type()
	if fnType.IsVariadic() {
		return fmt.Errorf("variadic constructor %v is not supported", fnType)
	}
	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return fmt.Errorf("constructor %v: second result has to be error", fnType)
		}
		c.returnsError = true
	default:
		return fmt.Errorf("constructor %v: expected 1 or 2 results", fnType)
	}
	if out := fnType.Out(0); out != rType && out != reflect.PointerTo(rType) {
		return fmt.Errorf("constructor %v: expected %v or *%v result", fnType, rType, rType)
	}
	if fnType.NumIn() != len(c.Params) {
		return fmt.Errorf("constructor %v: expected %v params, but had %v", fnType, fnType.NumIn(), len(c.Params))
	}
	names := make(map[string]bool, len(c.Params))
	for i := range c.Params {
		param := &c.Params[i]
		if param.Name == "" {
			return fmt.Errorf("constructor %v: param %d has no name", fnType, i)
		}
		if names[param.Name] {
			return fmt.Errorf("constructor %v: duplicate param %q", fnType, param.Name)
		}
		names[param.Name] = true
		paramShape := shape.Of(fnType.In(i))
		param.Shape = &paramShape
		if err := param.validateDefault(); err != nil {
			return fmt.Errorf("constructor %v: %w", fnType, err)
		}
	}
	c.fn = fn
	return nil
}

func (p *Param) validateDefault() error {
	if !p.HasDefault || p.Default == nil {
		return nil
	}
	defaultType := reflect.TypeOf(p.Default)
	switch {
	case defaultType.AssignableTo(p.Shape.Type), convertible(defaultType, p.Shape.Type):
		return nil
	case defaultType.Kind() == reflect.String: //converted at match time
		return nil
	}
	return fmt.Errorf("param %q default %T is not assignable to %v", p.Name, p.Default, p.Shape.Type)
}

func (c *Constructor) call(rType reflect.Type, args []reflect.Value) (result reflect.Value, err error) {
	if c.Implicit() {
		return reflect.New(rType), nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrConstructorPanic, r)
		}
	}()
	out := c.fn.Call(args)
	if c.returnsError && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}
	result = out[0]
	if result.Kind() == reflect.Ptr && result.Type().Elem() == rType {
		if result.IsNil() {
			return reflect.Value{}, ErrNilInstance
		}
		return result, nil
	}
	ptr := reflect.New(rType)
	ptr.Elem().Set(result)
	return ptr, nil
}

func implicitConstructor() *Constructor {
	return &Constructor{}
}

// NewConstructor creates constructor validated against rType, use it when implementing custom TypeDescriptor
func NewConstructor(rType reflect.Type, fn interface{}, params ...Param) (*Constructor, error) {
	ret := &Constructor{Fn: fn, Params: append([]Param{}, params...)}
	if err := ret.init(rType); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Constructor) initialized() bool {
	return c.Implicit() || c.fn.IsValid()
}

// NewType creates type descriptor, constructors are validated against the type,
// struct fields become properties
func NewType(rType reflect.Type, opts ...TypeOption) (*Type, error) {
	if rType == nil {
		return nil, errors.New("type was nil")
	}
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	options := &typeOptions{tagName: tags.TagName}
	for _, opt := range opts {
		opt(options)
	}
	ret := &Type{rType: rType}
	for i, candidate := range options.constructors {
		if decls := options.decls[i]; decls != nil {
			params, err := parseParams(decls)
			if err != nil {
				return nil, fmt.Errorf("invalid constructor %d for %v: %w", i, rType, err)
			}
			candidate.Params = params
		}
		ctor, err := NewConstructor(rType, candidate.Fn, candidate.Params...)
		if err != nil {
			return nil, fmt.Errorf("invalid constructor %d for %v: %w", i, rType, err)
		}
		ret.constructors = append(ret.constructors, ctor)
	}
	if rType.Kind() == reflect.Struct {
		if err := ret.initProperties(options.tagName); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Describe creates type descriptor for T
func Describe[T any](opts ...TypeOption) (*Type, error) {
	return NewType(reflect.TypeFor[T](), opts...)
}

func (t *Type) initProperties(tagName string) error {
	xStruct := visitor.StructOf(t.rType)
	for i := range xStruct.Fields {
		field := t.rType.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}
		if IsSetMarker(field.Tag) {
			marker, err := NewMarker(t.rType, WithNoStrict())
			if err != nil {
				return fmt.Errorf("invalid presence marker for %v: %w", t.rType, err)
			}
			t.marker = marker
			continue
		}
		tag, err := tags.Lookup(field.Tag, tagName)
		if err != nil {
			return fmt.Errorf("invalid %v.%v tag: %w", t.rType, field.Name, err)
		}
		prop := &Property{Name: field.Name, Shape: shape.Of(field.Type), Index: i, field: &xStruct.Fields[i]}
		if tag != nil {
			if tag.Ignore {
				continue
			}
			if tag.Name != "" {
				prop.Name = tag.Name
			}
		}
		if fieldFormat, _ := format.Parse(field.Tag); fieldFormat != nil {
			prop.TimeLayout = fieldFormat.TimeLayout
		}
		t.properties = append(t.properties, prop)
	}
	return nil
}

func parseParams(decls []string) ([]Param, error) {
	params := make([]Param, 0, len(decls))
	for _, decl := range decls {
		tag, err := tags.Parse(decl)
		if err != nil {
			return nil, err
		}
		param := Param{Name: tag.Name, Optional: tag.Optional, HasDefault: tag.HasDefault}
		if tag.HasDefault {
			param.Default = tag.Default
		}
		params = append(params, param)
	}
	return params, nil
}

// EnsureStructType returns struct type or nil
func EnsureStructType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Struct:
		return t
	case reflect.Ptr:
		return EnsureStructType(t.Elem())
	}
	return nil
}
