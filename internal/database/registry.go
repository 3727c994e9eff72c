package database

import (
	"fmt"
	"sync"
)

// Registry hands out the single Manager of a process.
//
// The first Instance call fixes the database name and applies the options.
// Later calls return the same Manager; their options are ignored. Callers
// receive the Manager by injection. Tests build their own Registry instead
// of sharing the default one.
type Registry struct {
	mu      sync.Mutex
	manager *Manager
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Instance returns the Manager bound to name, creating it on first use.
// Asking for a different name once a Manager exists is a caller error and
// yields ErrNameMismatch; it never rebinds the Manager.
func (r *Registry) Instance(name string, opts ...Option) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.manager != nil {
		if r.manager.name != name {
			return nil, fmt.Errorf("%w: bound to %q, requested %q", ErrNameMismatch, r.manager.name, name)
		}
		return r.manager, nil
	}

	m, err := newManager(name, opts...)
	if err != nil {
		return nil, err
	}
	r.manager = m

	return m, nil
}

var defaultRegistry = NewRegistry()

// Instance returns the process-wide Manager from the default Registry.
func Instance(name string, opts ...Option) (*Manager, error) {
	return defaultRegistry.Instance(name, opts...)
}
