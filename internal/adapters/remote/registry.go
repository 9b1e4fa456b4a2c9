// Package remote provides sync endpoint implementations and the
// registry the application selects its active endpoint from.
package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/ventasync/ventasync/internal/application/ports"
)

// Registry holds named sync endpoints in registration order. The
// application registers every endpoint it knows about and asks the
// registry for the first reachable one.
type Registry struct {
	mu     sync.RWMutex
	names  []string
	byName map[string]ports.RemoteEndpointPort
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]ports.RemoteEndpointPort)}
}

// Register adds an endpoint under the given name. Registering an
// existing name replaces the endpoint but keeps its position.
func (r *Registry) Register(name string, endpoint ports.RemoteEndpointPort) error {
	if name == "" {
		return fmt.Errorf("endpoint name cannot be empty")
	}
	if endpoint == nil {
		return fmt.Errorf("endpoint %q cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, known := r.byName[name]; !known {
		r.names = append(r.names, name)
	}
	r.byName[name] = endpoint
	return nil
}

// Get returns the endpoint registered under name, or nil.
func (r *Registry) Get(name string) ports.RemoteEndpointPort {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// List returns the registered names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Primary returns the first endpoint, in registration order, that
// reports itself reachable. It returns an error when no endpoint does.
func (r *Registry) Primary(ctx context.Context) (ports.RemoteEndpointPort, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.names {
		endpoint := r.byName[name]
		if up, err := endpoint.IsAvailable(ctx); err == nil && up {
			return endpoint, nil
		}
	}
	return nil, fmt.Errorf("no reachable sync endpoint")
}
