// Package yamlsrc reads entry sets from YAML documents, mapping key order is preserved.
package yamlsrc

import (
	"fmt"
	"os"
	"strings"

	"github.com/viant/activator/entry"
	"gopkg.in/yaml.v3"
)

const nullTag = "!!null"

// Parse parses YAML document into entry set, a mapping yields named entries,
// a sequence yields positional entries
func Parse(data []byte) (entry.Set, error) {
	node := yaml.Node{}
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse yaml document: %w", err)
	}
	root := resolve(&node)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return entry.NewSet()
		}
		root = resolve(root.Content[0])
	}
	if root.Kind == 0 {
		return entry.NewSet()
	}
	var entries []*entry.Entry
	switch root.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			key, value := root.Content[i], resolve(root.Content[i+1])
			item, err := newEntry(key.Value, value)
			if err != nil {
				return nil, fmt.Errorf("invalid %q at line %d: %w", key.Value, key.Line, err)
			}
			if item != nil {
				entries = append(entries, item)
			}
		}
	case yaml.SequenceNode:
		for i, element := range root.Content {
			item, err := newEntry("", resolve(element))
			if err != nil {
				return nil, fmt.Errorf("invalid element %d at line %d: %w", i, element.Line, err)
			}
			if item != nil {
				entries = append(entries, item)
			}
		}
	case yaml.ScalarNode:
		if root.Tag == nullTag {
			return entry.NewSet()
		}
		return nil, fmt.Errorf("expected yaml mapping or sequence, but had scalar %q", root.Value)
	}
	return entry.NewSet(entries...)
}

// Load reads and parses YAML file
func Load(path string) (entry.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", path, err)
	}
	return Parse(data)
}

func newEntry(name string, node *yaml.Node) (*entry.Entry, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == nullTag {
			return nil, nil
		}
		if name == "" {
			return entry.Positional(node.Value), nil
		}
		return entry.Named(name, node.Value), nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, element := range node.Content {
			text, err := itemText(resolve(element))
			if err != nil {
				return nil, err
			}
			items = append(items, text)
		}
		if name == "" {
			return entry.PositionalList(items...), nil
		}
		return entry.NamedList(name, items...), nil
	}
	return nil, fmt.Errorf("unsupported yaml node at line %d", node.Line)
}

// itemText returns sequence item text, nested sequences use "[a,b]" notation
func itemText(node *yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == nullTag {
			return "", nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		texts := make([]string, 0, len(node.Content))
		for _, element := range node.Content {
			text, err := itemText(resolve(element))
			if err != nil {
				return "", err
			}
			texts = append(texts, text)
		}
		return "[" + strings.Join(texts, ",") + "]", nil
	}
	return "", fmt.Errorf("unsupported yaml node at line %d", node.Line)
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
