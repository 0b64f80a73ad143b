// Package hclsrc reads entry sets from HCL documents.
//
// Top level attributes become named entries, "positional" blocks with a "value"
// attribute become positional entries; both keep source order.
package hclsrc

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/viant/activator/entry"
	"github.com/zclconf/go-cty/cty"
)

const (
	// PositionalBlock block type declaring positional entry
	PositionalBlock = "positional"
	valueAttribute  = "value"
)

type located struct {
	offset int
	entry  *entry.Entry
}

// Parse parses HCL document into entry set, filename is used in diagnostics only
func Parse(data []byte, filename string) (entry.Set, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unsupported HCL body %T", file.Body)
	}
	var items []located
	for name, attr := range body.Attributes {
		item, err := newEntry(name, attr)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, located{offset: attr.SrcRange.Start.Byte, entry: item})
		}
	}
	for _, block := range body.Blocks {
		if block.Type != PositionalBlock {
			return nil, fmt.Errorf("%v: unsupported block %q", block.DefRange(), block.Type)
		}
		attr, ok := block.Body.Attributes[valueAttribute]
		if !ok || len(block.Body.Attributes) != 1 || len(block.Body.Blocks) > 0 {
			return nil, fmt.Errorf("%v: %s block has to define only %q attribute", block.DefRange(), PositionalBlock, valueAttribute)
		}
		item, err := newEntry("", attr)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, located{offset: block.Range().Start.Byte, entry: item})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].offset < items[j].offset
	})
	entries := make([]*entry.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.entry)
	}
	return entry.NewSet(entries...)
}

// Load reads and parses HCL file
func Load(path string) (entry.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", path, err)
	}
	return Parse(data, path)
}

func newEntry(name string, attr *hclsyntax.Attribute) (*entry.Entry, error) {
	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate %q: %w", attr.Name, diags)
	}
	if value.IsNull() {
		return nil, nil
	}
	ty := value.Type()
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		items, err := elements(value)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", attr.SrcRange, err)
		}
		if name == "" {
			return entry.PositionalList(items...), nil
		}
		return entry.NamedList(name, items...), nil
	}
	text, err := ctyText(value)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", attr.SrcRange, err)
	}
	if name == "" {
		return entry.Positional(text), nil
	}
	return entry.Named(name, text), nil
}

func elements(value cty.Value) ([]string, error) {
	items := make([]string, 0, value.LengthInt())
	for it := value.ElementIterator(); it.Next(); {
		_, element := it.Element()
		text, err := ctyText(element)
		if err != nil {
			return nil, err
		}
		items = append(items, text)
	}
	return items, nil
}

// ctyText returns value text, nested collections use "[a,b]" notation
func ctyText(value cty.Value) (string, error) {
	if !value.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}
	if value.IsNull() {
		return "", nil
	}
	ty := value.Type()
	switch {
	case ty == cty.String:
		return value.AsString(), nil
	case ty == cty.Number:
		return value.AsBigFloat().Text('f', -1), nil
	case ty == cty.Bool:
		return strconv.FormatBool(value.True()), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		items, err := elements(value)
		if err != nil {
			return "", err
		}
		return "[" + strings.Join(items, ",") + "]", nil
	}
	return "", fmt.Errorf("unsupported value type: %s", ty.FriendlyName())
}
