package entry

import (
	"strconv"
	"strings"
)

// Set represents an ordered entry set produced for one target object
type Set []*Entry

// DuplicateNameError is returned when a set carries the same name twice
type DuplicateNameError struct{ Name string }

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return "entry: duplicate entry name " + strconv.Quote(e.Name)
}

// NewSet creates a set, names have to be unique
func NewSet(entries ...*Entry) (Set, error) {
	var result = make(Set, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, item := range entries {
		if item == nil {
			continue
		}
		if item.Name != "" {
			if seen[item.Name] {
				return nil, &DuplicateNameError{Name: item.Name}
			}
			seen[item.Name] = true
		}
		result = append(result, item)
	}
	return result, nil
}

// MustSet creates a set or panics on duplicated names
func MustSet(entries ...*Entry) Set {
	result, err := NewSet(entries...)
	if err != nil {
		panic(err)
	}
	return result
}

// Lookup returns a named entry matching supplied name
func (s Set) Lookup(name string, fold bool) *Entry {
	for _, candidate := range s {
		if candidate.Name == "" {
			continue
		}
		if candidate.Name == name || (fold && strings.EqualFold(candidate.Name, name)) {
			return candidate
		}
	}
	return nil
}

// Positional returns indexes of positional entries in source order
func (s Set) Positional() []int {
	var result []int
	for i, candidate := range s {
		if candidate.IsPositional() {
			result = append(result, i)
		}
	}
	return result
}

// Names returns entry names in source order
func (s Set) Names() []string {
	var result []string
	for _, candidate := range s {
		if candidate.Name != "" {
			result = append(result, candidate.Name)
		}
	}
	return result
}

func (s Set) String() string {
	builder := strings.Builder{}
	builder.WriteString("{")
	for i, item := range s {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(item.String())
	}
	builder.WriteString("}")
	return builder.String()
}
