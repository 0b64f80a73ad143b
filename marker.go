package activator

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

//Marker records which struct fields were set from entries
type Marker struct {
	t        reflect.Type
	holder   *xunsafe.Field
	fields   []*xunsafe.Field
	index    map[string]int //marker field post
	noStrict bool
}

//MarkerOption marker option
type MarkerOption func(m *Marker)

//MarkerOptions represents marker options
type MarkerOptions []MarkerOption

//Apply applies options
func (o MarkerOptions) Apply(m *Marker) {
	for _, opt := range o {
		opt(m)
	}
}

//WithNoStrict allows marker struct to define a subset of struct fields
func WithNoStrict() MarkerOption {
	return func(m *Marker) {
		m.noStrict = true
	}
}

//Index returns mapped field index or -1
func (p *Marker) Index(name string) int {
	if len(p.index) == 0 {
		return -1
	}
	pos, ok := p.index[name]
	if !ok {
		return -1
	}
	return pos
}

//CanUseHolder returns true if marker holder is allocated
func (p *Marker) CanUseHolder(ptr unsafe.Pointer) bool {
	if p.holder == nil || p.holder.IsNil(ptr) {
		return false
	}
	return true
}

//EnsureHolder allocates marker holder if needed
func (p *Marker) EnsureHolder(ptr unsafe.Pointer) {
	if p.holder == nil || !p.holder.IsNil(ptr) {
		return
	}
	reflect.NewAt(p.holder.Type, p.holder.Pointer(ptr)).Elem().Set(reflect.New(p.holder.Type.Elem()))
}

//Set sets field marker
func (p *Marker) Set(ptr unsafe.Pointer, index int, flag bool) error {
	if !p.CanUseHolder(ptr) {
		return fmt.Errorf("holder was empty")
	}
	if !p.Tracks(index) {
		return fmt.Errorf("field at index %v was missing in set marker", index)
	}
	p.fields[index].SetBool(p.holder.ValuePointer(ptr), flag)
	return nil
}

//Tracks returns true if marker holder defines a flag for the field index
func (p *Marker) Tracks(index int) bool {
	return index >= 0 && index < len(p.fields) && p.fields[index] != nil
}

//IsSet returns true if field has been set
func (p *Marker) IsSet(ptr unsafe.Pointer, index int) bool {
	if p.holder == nil || p.holder.IsNil(ptr) {
		return false
	}
	return p.has(ptr, index)
}

func (p *Marker) has(ptr unsafe.Pointer, index int) bool {
	if !p.Tracks(index) {
		return false
	}
	return p.fields[index].Bool(p.holder.ValuePointer(ptr))
}

func (p *Marker) init() error {
	if p.holder == nil {
		typeName := ""
		if p.t != nil {
			typeName = p.t.String()
		}
		return fmt.Errorf("holder was empty for %s", typeName)
	}
	if len(p.index) == 0 {
		return fmt.Errorf("struct has no markable fields")
	}
	holderType := EnsureStructType(p.holder.Type)
	if p.holder.Type.Kind() != reflect.Ptr || holderType == nil {
		return fmt.Errorf("marker %v has to be a pointer to struct", p.holder.Type)
	}
	p.fields = make([]*xunsafe.Field, p.t.NumField())
	for i := 0; i < holderType.NumField(); i++ {
		markerField := holderType.Field(i)
		if markerField.Type.Kind() != reflect.Bool {
			return fmt.Errorf("marker field: '%v' has to be bool", markerField.Name)
		}
		pos, ok := p.index[markerField.Name]
		if !ok || pos >= len(p.fields) {
			if p.noStrict {
				continue
			}
			return fmt.Errorf("marker field: '%v' does not have corresponding struct field", markerField.Name)
		}
		p.fields[pos] = xunsafe.NewField(markerField)
	}
	return nil
}

//NewMarker returns new struct field set marker
func NewMarker(t reflect.Type, opts ...MarkerOption) (*Marker, error) {
	if t = EnsureStructType(t); t == nil {
		return nil, fmt.Errorf("supplied type is not struct")
	}
	numFiled := t.NumField()
	var result = &Marker{t: t, index: make(map[string]int, numFiled)}
	MarkerOptions(opts).Apply(result)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		result.index[field.Name] = field.Index[0]
		if IsSetMarker(field.Tag) {
			result.holder = xunsafe.NewField(field)
		}
	}
	return result, result.init()
}

//GenMarkerFields generates presence marker struct fields for exported struct fields
func GenMarkerFields(t reflect.Type) []reflect.StructField {
	var result []reflect.StructField
	if t = EnsureStructType(t); t == nil {
		return result
	}
	boolType := reflect.TypeOf(true)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || IsSetMarker(field.Tag) {
			continue
		}
		result = append(result, reflect.StructField{Name: field.Name, Type: boolType})
	}
	return result
}
