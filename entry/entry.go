// Package entry defines raw configuration entries as produced by a
// configuration source, before any type conversion.
package entry

import (
	"strconv"
	"strings"
)

// Entry represents a single raw configuration item
type Entry struct {
	//Name entry name, empty for positional entry
	Name string
	//Value single raw value
	Value string
	//Items ordered raw values of a sequence entry
	Items []string
	//Sequence true if entry carries Items rather than Value
	Sequence bool
}

// Named creates a named scalar entry
func Named(name, value string) *Entry {
	return &Entry{Name: name, Value: value}
}

// NamedList creates a named sequence entry
func NamedList(name string, items ...string) *Entry {
	return &Entry{Name: name, Items: ensureItems(items), Sequence: true}
}

// Positional creates an unnamed scalar entry
func Positional(value string) *Entry {
	return &Entry{Value: value}
}

// PositionalList creates an unnamed sequence entry
func PositionalList(items ...string) *Entry {
	return &Entry{Items: ensureItems(items), Sequence: true}
}

func ensureItems(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// IsPositional returns true if entry has no name
func (e *Entry) IsPositional() bool {
	return e.Name == ""
}

// Texts returns raw values as a list, a scalar entry yields a single element
func (e *Entry) Texts() []string {
	if e.Sequence {
		return e.Items
	}
	return []string{e.Value}
}

func (e *Entry) String() string {
	builder := strings.Builder{}
	if e.Name != "" {
		builder.WriteString(e.Name)
		builder.WriteString("=")
	}
	if !e.Sequence {
		builder.WriteString(strconv.Quote(e.Value))
		return builder.String()
	}
	builder.WriteString("[")
	for i, item := range e.Items {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString(strconv.Quote(item))
	}
	builder.WriteString("]")
	return builder.String()
}
