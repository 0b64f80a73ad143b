package activator

import (
	"fmt"
	"reflect"

	"github.com/viant/activator/conv"
	"github.com/viant/activator/entry"
	"github.com/viant/xunsafe"
)

type markerProvider interface {
	Marker() *Marker
}

// BindProperties assigns named entries not consumed by a constructor to matching properties.
// Unmatched entries are ignored, unmatched properties keep their values.
func (a *Activator) BindProperties(instance interface{}, desc TypeDescriptor, set entry.Set, consumed map[string]bool) error {
	properties := desc.Properties()
	if len(properties) == 0 {
		return nil
	}
	rValue := reflect.ValueOf(instance)
	if rValue.Kind() != reflect.Ptr || rValue.IsNil() || rValue.Type().Elem() != desc.Type() {
		return fmt.Errorf("expected non nil *%v, but had %T", desc.Type(), instance)
	}
	ptr := xunsafe.AsPointer(instance)
	var marker *Marker
	if provider, ok := desc.(markerProvider); ok {
		marker = provider.Marker()
	}
	used := make(map[string]bool, len(consumed))
	for name := range consumed {
		used[name] = true
	}
	for _, prop := range properties {
		named := a.lookup(set, prop.Name)
		if named == nil || used[named.Name] {
			continue
		}
		if prop.field == nil {
			return &PropertyError{Type: desc.Type(), Property: prop.Name, Err: ErrNotInitialized}
		}
		value, err := a.convertProperty(prop, named)
		if err != nil {
			return &PropertyError{Type: desc.Type(), Property: prop.Name, Err: err}
		}
		prop.Set(ptr, value)
		used[named.Name] = true
		a.options.logger.Debug("property bound", "type", typeName(desc.Type()), "property", prop.Name, "entry", named.Name)
		if marker == nil {
			continue
		}
		if index := marker.Index(desc.Type().Field(prop.Index).Name); marker.Tracks(index) {
			marker.EnsureHolder(ptr)
			if err := marker.Set(ptr, index, true); err != nil {
				return &PropertyError{Type: desc.Type(), Property: prop.Name, Err: err}
			}
		}
	}
	return nil
}

func (a *Activator) convertProperty(prop *Property, named *entry.Entry) (reflect.Value, error) {
	var opts []conv.ConvertOption
	if prop.TimeLayout != "" {
		opts = append(opts, conv.WithTimeLayout(prop.TimeLayout))
	}
	if prop.Shape.IsContainer() {
		return a.options.converter.Build(named.Texts(), prop.Shape, opts...)
	}
	return a.convertScalar(named, prop.Shape.Type, opts...)
}
