package provider

import (
	"sort"
	"sync"

	"github.com/aimichat/llmrouter/pkg/types"
)

// Registry maps provider identifiers to clients.
type Registry struct {
	mu      sync.RWMutex
	clients map[types.ProviderID]Client
}

// NewRegistry creates a registry holding clients.
func NewRegistry(clients ...Client) *Registry {
	r := &Registry{clients: make(map[types.ProviderID]Client, len(clients))}
	for _, c := range clients {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the client for c.Name().
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.Name()] = c
}

// Lookup returns the client registered for id.
func (r *Registry) Lookup(id types.ProviderID) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []types.ProviderID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]types.ProviderID, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
