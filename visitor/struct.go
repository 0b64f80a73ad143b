package visitor

import (
	"fmt"
	"reflect"

	"github.com/viant/xunsafe"
)

var structCache = NewSyncMap[reflect.Type, *xunsafe.Struct]()

// StructOf returns cached struct layout
func StructOf(structType reflect.Type) *xunsafe.Struct {
	xStruct, ok := structCache.Get(structType)
	if !ok {
		xStruct, _ = structCache.PutIfAbsent(structType, xunsafe.NewStruct(structType))
	}
	return xStruct
}

// StructVisitorOf creates a visitor over exported struct fields in declaration order,
// value has to be a struct or a pointer to struct
func StructVisitorOf(value interface{}) (Visitor[string, interface{}], error) {
	valueType := reflect.TypeOf(value)
	if valueType == nil {
		return nil, fmt.Errorf("expected struct, got nil")
	}
	var structType reflect.Type
	switch valueType.Kind() {
	case reflect.Ptr:
		if reflect.ValueOf(value).IsNil() {
			return nil, fmt.Errorf("expected non nil %T", value)
		}
		structType = valueType.Elem()
	case reflect.Struct:
		structType = valueType
		rPointer := reflect.New(structType)
		rPointer.Elem().Set(reflect.ValueOf(value))
		value = rPointer.Interface()
	default:
		return nil, fmt.Errorf("expected struct or pointer to struct, got %T", value)
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct or pointer to struct, got %T", value)
	}
	xStruct := StructOf(structType)
	ptr := xunsafe.AsPointer(value)
	return func(f func(key string, element interface{}) (bool, error)) error {
		for i := range xStruct.Fields {
			if !structType.Field(i).IsExported() {
				continue
			}
			xField := &xStruct.Fields[i]
			continueVisit, err := f(xField.Name, xField.Value(ptr))
			if err != nil {
				return err
			}
			if !continueVisit {
				break
			}
		}
		return nil
	}, nil
}
