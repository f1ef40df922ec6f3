package secret

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Manager routes references to providers by URI scheme.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{providers: make(map[string]Provider)}
}

// Register registers a provider for a scheme (e.g. "vault", "env").
func (m *Manager) Register(scheme string, provider Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[strings.ToLower(scheme)] = provider
}

// IsReference reports whether value is a scheme://path reference.
func IsReference(value string) bool {
	_, ok := ParseRef(value)
	return ok
}

// Resolve returns the secret a reference points to. Values that are not
// references are literal keys and are returned unchanged.
func (m *Manager) Resolve(ctx context.Context, value string) (string, error) {
	ref, ok := ParseRef(value)
	if !ok {
		return value, nil
	}

	m.mu.RLock()
	provider, found := m.providers[ref.Scheme]
	m.mu.RUnlock()
	if !found {
		return "", fmt.Errorf("no secret provider registered for scheme: %s", ref.Scheme)
	}
	return provider.Get(ctx, ref)
}

// Flush drops cached values from every provider that caches, so the next
// Resolve reads the backend again.
func (m *Manager) Flush() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.providers {
		if f, ok := p.(interface{ Flush() }); ok {
			f.Flush()
		}
	}
}

// Close closes all registered providers.
func (m *Manager) Close() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs []string
	for scheme, p := range m.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", scheme, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close secret providers: %s", strings.Join(errs, "; "))
	}
	return nil
}
