package conv

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTimeLayout is the default layout used for time parsing when no layout is specified
const DefaultTimeLayout = time.RFC3339

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// Options contains configuration for the converter
type Options struct {
	// TimeLayout specifies the layout for time parsing
	TimeLayout string
	// CaseSensitiveEnums controls whether enum names are matched case sensitively
	CaseSensitiveEnums bool
}

// DefaultOptions returns default conversion options
func DefaultOptions() Options {
	return Options{
		TimeLayout: DefaultTimeLayout,
	}
}

// Converter converts raw text into destination types.
// Registries are safe for concurrent use.
type Converter struct {
	options       Options
	customConvMap sync.Map // map[reflect.Type]ConversionFunc
	enumMap       sync.Map // map[reflect.Type]map[string]reflect.Value
}

// ConversionFunc defines a custom conversion function, returned value has to be
// assignable or convertible to destType
type ConversionFunc func(raw string, destType reflect.Type, opts Options) (interface{}, error)

type (
	convertOptions struct {
		timeLayout string
	}

	// ConvertOption represents per call conversion option
	ConvertOption func(o *convertOptions)
)

// WithTimeLayout overrides time layout for a conversion call
func WithTimeLayout(timeLayout string) ConvertOption {
	return func(o *convertOptions) {
		o.timeLayout = timeLayout
	}
}

func newConvertOptions(opts []ConvertOption) *convertOptions {
	ret := &convertOptions{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// NewConverter creates a new converter with the provided options
func NewConverter(options Options) *Converter {
	return &Converter{
		options: options,
	}
}

// Options returns converter options
func (c *Converter) Options() Options {
	return c.options
}

// Register registers a custom conversion function for a destination type,
// registered conversions are consulted before built-in ones.
func (c *Converter) Register(destType reflect.Type, fn ConversionFunc) {
	c.customConvMap.Store(destType, fn)
}

// RegisterEnum registers enum names for a destination type, each value has to be
// convertible to destType
func (c *Converter) RegisterEnum(destType reflect.Type, names map[string]interface{}) error {
	values := make(map[string]reflect.Value, len(names))
	for name, value := range names {
		rValue := reflect.ValueOf(value)
		if !rValue.IsValid() || !rValue.Type().ConvertibleTo(destType) {
			return fmt.Errorf("enum %v value %v is not convertible to %v", name, value, destType)
		}
		if !c.options.CaseSensitiveEnums {
			name = strings.ToLower(name)
		}
		values[name] = rValue.Convert(destType)
	}
	c.enumMap.Store(destType, values)
	return nil
}

// Convert converts raw text into destination type value
func (c *Converter) Convert(raw string, destType reflect.Type, opts ...ConvertOption) (reflect.Value, error) {
	if destType == nil {
		return reflect.Value{}, errors.New("destination type cannot be nil")
	}
	return c.convert(raw, destType, newConvertOptions(opts))
}

func (c *Converter) convert(raw string, destType reflect.Type, options *convertOptions) (reflect.Value, error) {
	value, err := c.convertValue(raw, destType, options)
	if err == nil {
		return value, nil
	}
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return reflect.Value{}, err
	}
	return reflect.Value{}, &ConversionError{Value: raw, Type: destType, Err: err}
}

func (c *Converter) convertValue(raw string, destType reflect.Type, options *convertOptions) (reflect.Value, error) {
	// Try custom conversion first
	if v, ok := c.customConvMap.Load(destType); ok {
		result, err := v.(ConversionFunc)(raw, destType, c.options)
		if err != nil {
			return reflect.Value{}, err
		}
		return asValue(result, destType)
	}
	if v, ok := c.enumMap.Load(destType); ok {
		if value, ok := c.lookupEnum(v.(map[string]reflect.Value), raw); ok {
			return value, nil
		}
	}
	switch destType {
	case timeType:
		return c.convertToTime(raw, c.timeLayout(options))
	case durationType:
		return convertToDuration(raw)
	}
	if destType.Kind() == reflect.Ptr {
		elem, err := c.convertValue(raw, destType.Elem(), options)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(destType.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}
	dest := reflect.New(destType)
	if unmarshaler, ok := dest.Interface().(encoding.TextUnmarshaler); ok {
		if err := unmarshaler.UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, err
		}
		return dest.Elem(), nil
	}
	destValue := dest.Elem()
	switch destType.Kind() {
	case reflect.String:
		destValue.SetString(raw)
	case reflect.Bool:
		result, err := convertToBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		destValue.SetBool(result)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		result, err := convertToInt(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if destValue.OverflowInt(result) {
			return reflect.Value{}, fmt.Errorf("value %v overflows %v", result, destType)
		}
		destValue.SetInt(result)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		result, err := convertToUint(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if destValue.OverflowUint(result) {
			return reflect.Value{}, fmt.Errorf("value %v overflows %v", result, destType)
		}
		destValue.SetUint(result)
	case reflect.Float32, reflect.Float64:
		result, err := strconv.ParseFloat(strings.TrimSpace(raw), destType.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		destValue.SetFloat(result)
	case reflect.Slice:
		if destType.Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, ErrUnsupported
		}
		destValue.SetBytes([]byte(raw))
	case reflect.Interface:
		if destType.NumMethod() > 0 {
			return reflect.Value{}, ErrUnsupported
		}
		destValue.Set(reflect.ValueOf(raw))
	default:
		return reflect.Value{}, ErrUnsupported
	}
	return destValue, nil
}

func (c *Converter) lookupEnum(values map[string]reflect.Value, raw string) (reflect.Value, bool) {
	key := strings.TrimSpace(raw)
	if !c.options.CaseSensitiveEnums {
		key = strings.ToLower(key)
	}
	value, ok := values[key]
	return value, ok
}

func (c *Converter) timeLayout(options *convertOptions) string {
	if options != nil && options.timeLayout != "" {
		return options.timeLayout
	}
	if c.options.TimeLayout != "" {
		return c.options.TimeLayout
	}
	return DefaultTimeLayout
}

func asValue(result interface{}, destType reflect.Type) (reflect.Value, error) {
	dest := reflect.New(destType).Elem()
	if result == nil {
		return dest, nil
	}
	value := reflect.ValueOf(result)
	switch {
	case value.Type().AssignableTo(destType):
		dest.Set(value)
	case value.Type().ConvertibleTo(destType):
		dest.Set(value.Convert(destType))
	default:
		return reflect.Value{}, fmt.Errorf("custom conversion returned %T, expected %v", result, destType)
	}
	return dest, nil
}

func convertToBool(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	result, err := strconv.ParseBool(raw)
	if err != nil {
		// Try numeric conversion if boolean parsing fails
		if f, fErr := strconv.ParseFloat(raw, 64); fErr == nil {
			return f != 0, nil
		}
		return false, err
	}
	return result, nil
}

func convertToInt(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(f) || f < math.MinInt64 || f >= 1<<63 {
			return 0, fmt.Errorf("value %v is out of int64 range", raw)
		}
		return int64(f), nil
	}
	return strconv.ParseInt(raw, 0, 64)
}

func convertToUint(raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, err
		}
		if f < 0 {
			return 0, fmt.Errorf("cannot convert negative value %f to unsigned int", f)
		}
		if math.IsNaN(f) || f >= 1<<64 {
			return 0, fmt.Errorf("value %v is out of uint64 range", raw)
		}
		return uint64(f), nil
	}
	return strconv.ParseUint(raw, 0, 64)
}

func convertToDuration(raw string) (reflect.Value, error) {
	raw = strings.TrimSpace(raw)
	d, err := time.ParseDuration(raw)
	if err != nil {
		nanos, nErr := strconv.ParseInt(raw, 10, 64)
		if nErr != nil {
			return reflect.Value{}, err
		}
		d = time.Duration(nanos)
	}
	return reflect.ValueOf(d), nil
}

func (c *Converter) convertToTime(raw string, layout string) (reflect.Value, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(layout, raw)
	if err == nil {
		return reflect.ValueOf(t), nil
	}
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, fErr := time.Parse(format, raw); fErr == nil {
			return reflect.ValueOf(t), nil
		}
	}
	if unixTime, nErr := strconv.ParseInt(raw, 10, 64); nErr == nil {
		if unixTime > 1e10 { // Assuming nanoseconds if value is very large
			return reflect.ValueOf(time.Unix(0, unixTime)), nil
		}
		return reflect.ValueOf(time.Unix(unixTime, 0)), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot parse time string '%s': %w", raw, err)
}
