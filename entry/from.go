package entry

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/viant/activator/visitor"
)

// FromMap creates a named entry set from any map, keys are formatted as names and sorted
// since map order is not defined; slice values become sequences.
func FromMap(values interface{}) (Set, error) {
	visit, err := visitor.AnyMapVisitorOf(values)
	if err != nil {
		return nil, err
	}
	var result Set
	err = visit(func(name string, value interface{}) (bool, error) {
		anEntry, err := newEntry(name, value)
		if err != nil {
			return false, err
		}
		result = append(result, anEntry)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return NewSet(result...)
}

// FromStruct creates a named entry set from struct exported fields in declaration order
func FromStruct(value interface{}) (Set, error) {
	visit, err := visitor.StructVisitorOf(value)
	if err != nil {
		return nil, err
	}
	var result Set
	err = visit(func(key string, value interface{}) (bool, error) {
		anEntry, err := newEntry(key, value)
		if err != nil {
			return false, err
		}
		result = append(result, anEntry)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return NewSet(result...)
}

func newEntry(name string, value interface{}) (*Entry, error) {
	if value == nil {
		return Named(name, ""), nil
	}
	if _, ok := value.([]byte); !ok && reflect.TypeOf(value).Kind() == reflect.Slice {
		visit, err := visitor.AnySliceVisitorOf(value)
		if err != nil {
			return nil, err
		}
		items := []string{}
		err = visit(func(index int, item any) (bool, error) {
			text, err := FormatValue(item)
			if err != nil {
				return false, fmt.Errorf("failed to format %v[%d]: %w", name, index, err)
			}
			items = append(items, text)
			return true, nil
		})
		if err != nil {
			return nil, err
		}
		return NamedList(name, items...), nil
	}
	text, err := FormatValue(value)
	if err != nil {
		return nil, fmt.Errorf("failed to format %v: %w", name, err)
	}
	return Named(name, text), nil
}

// FormatValue formats a scalar value as raw configuration text
func FormatValue(value interface{}) (string, error) {
	switch actual := value.(type) {
	case nil:
		return "", nil
	case string:
		return actual, nil
	case []byte:
		return string(actual), nil
	case time.Duration:
		return actual.String(), nil
	case encoding.TextMarshaler:
		data, err := actual.MarshalText()
		if err != nil {
			return "", err
		}
		return string(data), nil
	case fmt.Stringer:
		return actual.String(), nil
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Ptr:
		if rValue.IsNil() {
			return "", nil
		}
		return FormatValue(rValue.Elem().Interface())
	case reflect.String:
		return rValue.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rValue.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rValue.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rValue.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rValue.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rValue.Float(), 'g', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported value type %T", value)
}
