// Package registry provides deferred construction of heavy collaborators
// (speech-to-text, text-to-speech, vision pipelines) behind named
// accessors.
//
// A constructor runs at most once successfully; a failed constructor
// leaves the name unbuilt so a later Get may retry.
package registry

import (
	"fmt"
	"sync"
)

// Constructor builds a component on first access.
type Constructor func() (any, error)

// Registry maps names to lazily-built components. Safe for concurrent
// use; construction uses double-checked locking so concurrent Gets of
// the same name run the constructor once.
type Registry struct {
	mu     sync.Mutex
	ctors  map[string]Constructor
	values map[string]any
	// building serializes construction per name without holding mu
	// across a constructor call.
	building map[string]*sync.Mutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		ctors:    make(map[string]Constructor),
		values:   make(map[string]any),
		building: make(map[string]*sync.Mutex),
	}
}

// Register binds a constructor to a name. Re-registering an unbuilt name
// replaces the constructor; registering over a built name is an error.
func (r *Registry) Register(name string, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, built := r.values[name]; built {
		return fmt.Errorf("registry: %q already built", name)
	}
	r.ctors[name] = ctor
	return nil
}

// Get returns the component for name, constructing it on first access.
// On constructor failure the error is returned and the name remains
// unbuilt.
func (r *Registry) Get(name string) (any, error) {
	r.mu.Lock()
	if v, ok := r.values[name]; ok {
		r.mu.Unlock()
		return v, nil
	}
	ctor, ok := r.ctors[name]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("registry: unknown component %q", name)
	}
	gate, ok := r.building[name]
	if !ok {
		gate = &sync.Mutex{}
		r.building[name] = gate
	}
	r.mu.Unlock()

	gate.Lock()
	defer gate.Unlock()

	// Another goroutine may have finished construction while we waited.
	r.mu.Lock()
	if v, ok := r.values[name]; ok {
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	v, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("registry: building %q: %w", name, err)
	}

	r.mu.Lock()
	r.values[name] = v
	delete(r.ctors, name)
	delete(r.building, name)
	r.mu.Unlock()
	return v, nil
}

// Built reports whether name has been constructed.
func (r *Registry) Built(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.values[name]
	return ok
}

// Names returns every registered or built name.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.ctors)+len(r.values))
	for name := range r.ctors {
		names = append(names, name)
	}
	for name := range r.values {
		names = append(names, name)
	}
	return names
}

// Resolve fetches a component and asserts its type.
func Resolve[T any](r *Registry, name string) (T, error) {
	var zero T
	v, err := r.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("registry: component %q is %T, not %T", name, v, zero)
	}
	return typed, nil
}
