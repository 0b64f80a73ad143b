// Package jsonsrc reads entry sets from JSON documents.
//
// A top level object yields named entries in document order, a top level array
// yields positional entries. Arrays become sequences, numbers keep their literal text.
package jsonsrc

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/francoispqt/gojay"
	"github.com/viant/activator/entry"
)

type (
	document struct {
		entries []*entry.Entry
	}

	positional struct {
		entries []*entry.Entry
	}

	values struct {
		items []string
	}
)

// UnmarshalJSONObject decodes document key
func (d *document) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	raw := gojay.EmbeddedJSON{}
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return err
	}
	item, err := newEntry(key, raw)
	if err != nil {
		return fmt.Errorf("invalid %q: %w", key, err)
	}
	if item != nil {
		d.entries = append(d.entries, item)
	}
	return nil
}

// NKeys returns 0 to decode all keys
func (d *document) NKeys() int {
	return 0
}

// UnmarshalJSONArray decodes top level array element
func (p *positional) UnmarshalJSONArray(dec *gojay.Decoder) error {
	raw := gojay.EmbeddedJSON{}
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return err
	}
	item, err := newEntry("", raw)
	if err != nil {
		return fmt.Errorf("invalid element %d: %w", len(p.entries), err)
	}
	if item != nil {
		p.entries = append(p.entries, item)
	}
	return nil
}

// UnmarshalJSONArray decodes sequence item
func (v *values) UnmarshalJSONArray(dec *gojay.Decoder) error {
	raw := gojay.EmbeddedJSON{}
	if err := dec.EmbeddedJSON(&raw); err != nil {
		return err
	}
	text, err := itemText(raw)
	if err != nil {
		return err
	}
	v.items = append(v.items, text)
	return nil
}

// itemText returns sequence item text, nested arrays use "[a,b]" notation
func itemText(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		nested := &values{}
		if err := gojay.UnmarshalJSONArray(raw, nested); err != nil {
			return "", err
		}
		return "[" + strings.Join(nested.items, ",") + "]", nil
	}
	text, _, err := scalarText(raw)
	return text, err
}

// Parse parses JSON document into entry set
func Parse(data []byte) (entry.Set, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return entry.NewSet()
	}
	var entries []*entry.Entry
	switch data[0] {
	case '{':
		doc := &document{}
		if err := gojay.UnmarshalJSONObject(data, doc); err != nil {
			return nil, fmt.Errorf("failed to parse json document: %w", err)
		}
		entries = doc.entries
	case '[':
		doc := &positional{}
		if err := gojay.UnmarshalJSONArray(data, doc); err != nil {
			return nil, fmt.Errorf("failed to parse json document: %w", err)
		}
		entries = doc.entries
	default:
		return nil, fmt.Errorf("expected json object or array, but had: %q", data[0])
	}
	return entry.NewSet(entries...)
}

// Load reads and parses JSON file
func Load(path string) (entry.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", path, err)
	}
	return Parse(data)
}

func newEntry(name string, raw []byte) (*entry.Entry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		seq := &values{}
		if err := gojay.UnmarshalJSONArray(raw, seq); err != nil {
			return nil, err
		}
		if name == "" {
			return entry.PositionalList(seq.items...), nil
		}
		return entry.NamedList(name, seq.items...), nil
	}
	text, isNull, err := scalarText(raw)
	if err != nil || isNull {
		return nil, err
	}
	if name == "" {
		return entry.Positional(text), nil
	}
	return entry.Named(name, text), nil
}

// scalarText returns value text, isNull is true for null or missing value
func scalarText(raw []byte) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", true, nil
	}
	switch raw[0] {
	case '"':
		text := ""
		if err := gojay.Unmarshal(raw, &text); err != nil {
			return "", false, err
		}
		return text, false, nil
	case '{':
		return "", false, fmt.Errorf("nested object is not supported")
	case 'n':
		return "", true, nil
	}
	return string(raw), false, nil
}
