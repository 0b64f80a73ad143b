package conv

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/activator/shape"
)

// Build builds a container value for supplied raw values and destination shape.
// Element order and count follow raw; any element failure fails the whole build.
func (c *Converter) Build(raw []string, aShape shape.Shape, opts ...ConvertOption) (reflect.Value, error) {
	return c.build(raw, aShape, newConvertOptions(opts))
}

func (c *Converter) build(raw []string, aShape shape.Shape, options *convertOptions) (reflect.Value, error) {
	switch aShape.Kind {
	case shape.List, shape.GenericCollection:
		return c.buildSlice(raw, aShape.Type, options)
	case shape.NonGenericList:
		return buildUntyped(raw, aShape.Type), nil
	case shape.GenericEnumerable:
		items, err := c.buildSlice(raw, reflect.SliceOf(aShape.Elem), options)
		if err != nil {
			return reflect.Value{}, err
		}
		return enumerable(aShape.Type, items), nil
	}
	return reflect.Value{}, &ConversionError{Value: strings.Join(raw, ","), Type: aShape.Type, Err: ErrNotContainer}
}

func (c *Converter) buildSlice(raw []string, sliceType reflect.Type, options *convertOptions) (reflect.Value, error) {
	elemType := sliceType.Elem()
	elemShape := shape.Of(elemType)
	result := reflect.MakeSlice(sliceType, len(raw), len(raw))
	for i, text := range raw {
		var item reflect.Value
		var err error
		if elemShape.IsContainer() {
			item, err = c.build(Split(text), elemShape, options)
		} else {
			item, err = c.convert(text, elemType, options)
		}
		if err != nil {
			return reflect.Value{}, fmt.Errorf("failed to convert element %d: %w", i, err)
		}
		result.Index(i).Set(item)
	}
	return result, nil
}

// buildUntyped keeps elements as strings, consumers convert on their own
func buildUntyped(raw []string, sliceType reflect.Type) reflect.Value {
	result := reflect.MakeSlice(sliceType, len(raw), len(raw))
	for i, text := range raw {
		result.Index(i).Set(reflect.ValueOf(text))
	}
	return result
}

// enumerable wraps items with iter.Seq shaped function, it can be ranged many times
func enumerable(seqType reflect.Type, items reflect.Value) reflect.Value {
	return reflect.MakeFunc(seqType, func(args []reflect.Value) []reflect.Value {
		yield := args[0]
		for i := 0; i < items.Len(); i++ {
			if !yield.Call([]reflect.Value{items.Index(i)})[0].Bool() {
				break
			}
		}
		return nil
	})
}

// Split splits a repeated text value, e.g. "[1,2]" or "1, 2"
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && text[0] == '[' && text[len(text)-1] == ']' { //remove enclosure if needed
		text = text[1 : len(text)-1]
	}
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	elements := strings.Split(text, ",")
	for i := range elements {
		elements[i] = strings.TrimSpace(elements[i])
	}
	return elements
}
