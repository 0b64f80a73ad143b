package activator

import (
	"sort"

	"github.com/viant/activator/visitor"
)

// Registry holds type descriptors by name
type Registry struct {
	types *visitor.SyncMap[string, TypeDescriptor]
}

// Register registers type descriptor, a name can be registered only once
func (r *Registry) Register(name string, desc TypeDescriptor) error {
	if _, added := r.types.PutIfAbsent(name, desc); !added {
		return &DuplicateTypeError{Name: name}
	}
	return nil
}

// Lookup returns registered type descriptor
func (r *Registry) Lookup(name string) (TypeDescriptor, bool) {
	return r.types.Get(name)
}

// Names returns sorted registered names
func (r *Registry) Names() []string {
	names := r.types.Keys()
	sort.Strings(names)
	return names
}

// NewRegistry creates a registry
func NewRegistry() *Registry {
	return &Registry{types: visitor.NewSyncMap[string, TypeDescriptor]()}
}
