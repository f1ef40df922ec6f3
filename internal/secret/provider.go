// Package secret resolves API key references such as "env://SILICON_API_KEY"
// or "vault://secret/data/llm#gemini" found in configuration files.
package secret

import (
	"context"
	"strings"
)

// Ref is a parsed secret reference: scheme://path[#field].
type Ref struct {
	Scheme string
	Path   string
	// Field selects one key of a structured secret. Backends that store
	// plain values ignore it.
	Field string
}

// ParseRef splits value into a Ref. It reports false for literal keys and
// for references without a path.
func ParseRef(value string) (Ref, bool) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(value), "://")
	if !ok || scheme == "" {
		return Ref{}, false
	}
	path, field, _ := strings.Cut(rest, "#")
	if path == "" {
		return Ref{}, false
	}
	return Ref{Scheme: strings.ToLower(scheme), Path: path, Field: field}, true
}

// String formats the reference back to scheme://path[#field].
func (r Ref) String() string {
	s := r.Scheme + "://" + r.Path
	if r.Field != "" {
		s += "#" + r.Field
	}
	return s
}

// Provider reads secrets from one backend.
type Provider interface {
	Get(ctx context.Context, ref Ref) (string, error)
	Close() error
}
