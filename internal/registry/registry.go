// Package registry provides a small ordered name→entry lookup used for model
// type dispatch and source catalogs.
package registry

import (
	"fmt"
	"sort"
)

// Registry maps names to entries, preserving registration order for listing.
type Registry[T any] struct {
	entries map[string]T
	order   []string
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]T)}
}

// Register adds an entry under the given name.
//
// Registering a name twice is a programming error and panics, matching the
// behavior of duplicate registrations in init functions.
func (r *Registry[T]) Register(name string, entry T) {
	if _, ok := r.entries[name]; ok {
		panic(fmt.Sprintf("registry: duplicate registration of %q", name))
	}
	r.entries[name] = entry
	r.order = append(r.order, name)
}

// Get returns the entry registered under name.
func (r *Registry[T]) Get(name string) (T, error) {
	entry, ok := r.entries[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("registry: unknown entry %q (known: %v)", name, r.sortedNames())
	}
	return entry, nil
}

// Has reports whether a name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Names returns registered names in registration order.
func (r *Registry[T]) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry[T]) sortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}
