// Package envsrc reads entry sets from dotenv files and process environment.
//
// Keys are expected in UPPER_UNDERSCORE form, an optional prefix is stripped and the
// rest is converted to UpperCamel, i.e. APP_MAX_CONNECTIONS becomes MaxConnections.
package envsrc

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/viant/activator/entry"
	"github.com/viant/tagly/format/text"
)

type (
	options struct {
		prefix    string
		separator string
		keepNames bool
		lists     map[string]bool
	}

	// Option represents env source option
	Option func(o *options)
)

// WithPrefix selects keys with supplied prefix, the prefix is removed from entry names
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithListSeparator splits values containing separator into sequences
func WithListSeparator(separator string) Option {
	return func(o *options) {
		o.separator = separator
	}
}

// WithListNames marks entry names always emitted as sequences, even with a single item,
// values are split by the list separator, "," when none is set
func WithListNames(names ...string) Option {
	return func(o *options) {
		if o.lists == nil {
			o.lists = make(map[string]bool, len(names))
		}
		for _, name := range names {
			o.lists[name] = true
		}
	}
}

// WithKeepNames disables UpperCamel name conversion
func WithKeepNames() Option {
	return func(o *options) {
		o.keepNames = true
	}
}

// Parse parses dotenv content into entry set, entries are sorted by name
func Parse(data []byte, opts ...Option) (entry.Set, error) {
	values, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dotenv: %w", err)
	}
	return newSet(values, opts)
}

// Load reads and parses dotenv file
func Load(path string, opts ...Option) (entry.Set, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", path, err)
	}
	return newSet(values, opts)
}

// FromEnviron creates entry set from process environment
func FromEnviron(opts ...Option) (entry.Set, error) {
	values := map[string]string{}
	for _, pair := range os.Environ() {
		if index := strings.Index(pair, "="); index > 0 {
			values[pair[:index]] = pair[index+1:]
		}
	}
	return newSet(values, opts)
}

func newSet(values map[string]string, opts []Option) (entry.Set, error) {
	options := &options{}
	for _, opt := range opts {
		opt(options)
	}
	entries := make([]*entry.Entry, 0, len(values))
	for key, value := range values {
		if !strings.HasPrefix(key, options.prefix) {
			continue
		}
		name := strings.TrimPrefix(key, options.prefix)
		if name == "" {
			continue
		}
		if !options.keepNames {
			name = text.CaseFormatUpperUnderscore.Format(name, text.CaseFormatUpperCamel)
		}
		if options.lists[name] {
			entries = append(entries, entry.NamedList(name, options.split(value)...))
			continue
		}
		if options.separator != "" && strings.Contains(value, options.separator) {
			entries = append(entries, entry.NamedList(name, options.split(value)...))
			continue
		}
		entries = append(entries, entry.Named(name, value))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entry.NewSet(entries...)
}

func (o *options) split(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	separator := o.separator
	if separator == "" {
		separator = ","
	}
	items := strings.Split(value, separator)
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}
