package app

import (
	"fmt"

	"github.com/yourusername/djdeck-go/internal/domain"
)

// Registry is the immutable platform -> adapter mapping built once at
// process start and passed by reference into the services. Iteration
// follows domain.AllSources so merge order is deterministic.
type Registry struct {
	adapters map[domain.PlatformSource]domain.Adapter
}

// NewRegistry builds a registry from the given adapters. Duplicate
// sources and adapters outside the closed enum are construction
// errors.
func NewRegistry(adapters ...domain.Adapter) (*Registry, error) {
	m := make(map[domain.PlatformSource]domain.Adapter, len(adapters))
	for _, a := range adapters {
		source := a.Source()
		if !source.Valid() {
			return nil, fmt.Errorf("adapter has unknown source: %q", source)
		}
		if _, dup := m[source]; dup {
			return nil, fmt.Errorf("duplicate adapter for source: %s", source)
		}
		m[source] = a
	}
	return &Registry{adapters: m}, nil
}

// Get returns the adapter owning the given source, if registered.
func (r *Registry) Get(source domain.PlatformSource) (domain.Adapter, bool) {
	a, ok := r.adapters[source]
	return a, ok
}

// All returns the registered adapters in resolution order.
func (r *Registry) All() []domain.Adapter {
	out := make([]domain.Adapter, 0, len(r.adapters))
	for _, source := range domain.AllSources {
		if a, ok := r.adapters[source]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Available returns the adapters whose capability descriptor currently
// reports available, in resolution order.
func (r *Registry) Available() []domain.Adapter {
	var out []domain.Adapter
	for _, a := range r.All() {
		if a.Capabilities().Available {
			out = append(out, a)
		}
	}
	return out
}

// AvailableSources returns the sources of the currently available
// adapters, in resolution order.
func (r *Registry) AvailableSources() []domain.PlatformSource {
	var out []domain.PlatformSource
	for _, a := range r.Available() {
		out = append(out, a.Source())
	}
	return out
}
