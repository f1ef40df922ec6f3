// Package env resolves "env://NAME" secret references.
package env

import (
	"context"
	"fmt"
	"os"

	"github.com/aimichat/llmrouter/internal/secret"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// Provider reads secrets from the process environment.
type Provider struct {
	lookup LookupFunc
}

// New creates a provider backed by os.LookupEnv.
func New() *Provider {
	return &Provider{lookup: os.LookupEnv}
}

// NewWithLookup creates a provider backed by lookup. Used by tests.
func NewWithLookup(lookup LookupFunc) *Provider {
	return &Provider{lookup: lookup}
}

// Get returns the value of the variable named by ref.Path.
func (p *Provider) Get(_ context.Context, ref secret.Ref) (string, error) {
	val, ok := p.lookup(ref.Path)
	if !ok {
		return "", fmt.Errorf("environment variable %q not set", ref.Path)
	}
	return val, nil
}

// Close is a no-op.
func (p *Provider) Close() error { return nil }
