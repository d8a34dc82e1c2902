package model

import "slices"

// Registry is an ordered collection of uniquely named components. Lookups
// by name and by position are O(1).
type Registry[T any] struct {
	kind  string
	names []string
	items []T
	index map[string]int
}

// NewRegistry creates an empty registry. The kind names the category in
// duplicate name errors.
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		index: make(map[string]int),
	}
}

// Add appends an item under a new name.
func (r *Registry[T]) Add(name string, item T) error {
	if _, ok := r.index[name]; ok {
		return DuplicateNameError(r.kind, name)
	}
	r.index[name] = len(r.items)
	r.names = append(r.names, name)
	r.items = append(r.items, item)
	return nil
}

// Get returns the item registered under the name.
func (r *Registry[T]) Get(name string) (T, bool) {
	var zero T
	i, ok := r.index[name]
	if !ok {
		return zero, false
	}
	return r.items[i], true
}

// Has reports whether the name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Index returns the insertion position of the name, or -1.
func (r *Registry[T]) Index(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}

// At returns the item at position i.
func (r *Registry[T]) At(i int) T {
	return r.items[i]
}

// Len returns the number of registered items.
func (r *Registry[T]) Len() int {
	return len(r.items)
}

// All returns the items in insertion order.
func (r *Registry[T]) All() []T {
	return slices.Clone(r.items)
}

// Names returns the names in insertion order.
func (r *Registry[T]) Names() []string {
	return slices.Clone(r.names)
}
