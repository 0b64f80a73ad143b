// Package tags parses parameter and field declarations of the form
// "name,optional,default=value" used by `config` struct tags and
// constructor parameter literals.
package tags

import (
	"fmt"
	"reflect"
	"strings"
)

// TagName default struct tag name
const TagName = "config"

// Tag represents parsed declaration
type Tag struct {
	Name       string
	Ignore     bool
	Optional   bool
	HasDefault bool
	Default    string
}

// Parse parses declaration literal, the first element is a name unless it is a key=value pair
func Parse(literal string) (*Tag, error) {
	ret := &Tag{}
	literal = strings.TrimSpace(literal)
	if literal == "-" {
		ret.Ignore = true
		return ret, nil
	}
	rest := literal
	head := literal
	if index := strings.Index(literal, ","); index != -1 {
		head = literal[:index]
		rest = literal[index:]
	} else {
		rest = ""
	}
	if strings.Contains(head, "=") {
		rest = literal
	} else {
		ret.Name = strings.TrimSpace(head)
	}
	err := Values(rest).MatchPairs(func(key, value string) error {
		return ret.update(strings.TrimSpace(key), value)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid declaration %q: %w", literal, err)
	}
	return ret, nil
}

// Lookup parses struct tag for supplied tag name, it returns nil if tag is not defined
func Lookup(tag reflect.StructTag, tagName string) (*Tag, error) {
	literal, ok := tag.Lookup(tagName)
	if !ok {
		return nil, nil
	}
	return Parse(literal)
}

func (t *Tag) update(key, value string) error {
	switch strings.ToLower(key) {
	case "name":
		t.Name = value
	case "optional":
		t.Optional = true
	case "default":
		t.Optional = true
		t.HasDefault = true
		t.Default = unwrap(value)
	case "-", "ignore":
		t.Ignore = true
	default:
		return fmt.Errorf("unsupported option %q", key)
	}
	return nil
}

func unwrap(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		switch {
		case value[0] == '{' && value[len(value)-1] == '}':
			return value[1 : len(value)-1]
		case value[0] == '\'' && value[len(value)-1] == '\'':
			return value[1 : len(value)-1]
		}
	}
	return value
}
