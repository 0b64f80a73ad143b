package visitor

import (
	"fmt"
	"reflect"
	"sort"
)

// SortedMapVisitorOf creates a visitor over string keyed map, keys are visited in sorted order
func SortedMapVisitorOf[E any](aMap map[string]E) Visitor[string, E] {
	return func(f func(key string, element E) (bool, error)) error {
		keys := make([]string, 0, len(aMap))
		for k := range aMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			continueVisit, err := f(k, aMap[k])
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

// AnyMapVisitorOf creates a visitor over any map, keys are formatted with %v and visited in sorted order
func AnyMapVisitorOf(value interface{}) (Visitor[string, any], error) {
	switch actual := value.(type) {
	case map[string]interface{}:
		return SortedMapVisitorOf[any](actual), nil
	case map[string]string:
		return anyOf(SortedMapVisitorOf[string](actual)), nil
	}
	aMap := reflect.ValueOf(value)
	if aMap.Kind() != reflect.Map {
		return nil, fmt.Errorf("expected map, got %T", value)
	}
	return func(f func(key string, element any) (bool, error)) error {
		keys := aMap.MapKeys()
		texts := make([]string, len(keys))
		for i, key := range keys {
			texts[i] = fmt.Sprintf("%v", key.Interface())
		}
		order := make([]int, len(keys))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool { return texts[order[i]] < texts[order[j]] })
		for _, i := range order {
			continueVisit, err := f(texts[i], aMap.MapIndex(keys[i]).Interface())
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

func anyOf[K comparable, E any](visit Visitor[K, E]) Visitor[K, any] {
	return func(f func(key K, element any) (bool, error)) error {
		return visit(func(key K, element E) (bool, error) {
			return f(key, element)
		})
	}
}
