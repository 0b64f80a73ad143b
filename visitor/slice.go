package visitor

import (
	"fmt"
	"reflect"
)

// SliceVisitorOf creates a visitor over slice, the key is the element index
func SliceVisitorOf[E any](slice []E) Visitor[int, E] {
	return func(f func(key int, element E) (bool, error)) error {
		for i, elem := range slice {
			continueVisit, err := f(i, elem)
			if err != nil {
				return err
			}
			if !continueVisit {
				break
			}
		}
		return nil
	}
}

// AnySliceVisitorOf creates a visitor over any slice or array value
func AnySliceVisitorOf(value interface{}) (Visitor[int, any], error) {
	switch actual := value.(type) {
	case []interface{}:
		return SliceVisitorOf[any](actual), nil
	case []string:
		return anyOf(SliceVisitorOf[string](actual)), nil
	case []int:
		return anyOf(SliceVisitorOf[int](actual)), nil
	}
	slice := reflect.ValueOf(value)
	if kind := slice.Kind(); kind != reflect.Slice && kind != reflect.Array {
		return nil, fmt.Errorf("expected slice, got %T", value)
	}
	return func(f func(key int, element any) (bool, error)) error {
		for i := 0; i < slice.Len(); i++ {
			continueVisit, err := f(i, slice.Index(i).Interface())
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
