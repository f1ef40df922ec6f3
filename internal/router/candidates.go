// Package router picks an ordered list of candidate providers for a request
// and walks it, falling through to the next candidate only on transient
// failures.
package router

import (
	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/pkg/types"
)

// MaxAttempts caps how many candidates a single request may try.
const MaxAttempts = 3

// DefaultPriority is the order in which a default provider is chosen when
// none is configured.
var DefaultPriority = []types.ProviderID{
	types.Silicon,
	types.Gemini,
	types.DeepSeek,
	types.Moonshot,
	types.OpenRouter,
	types.Zhipu,
}

// LastResort is used when no provider has a key. Calling it fails loudly
// with a missing-key error instead of producing an empty candidate list.
const LastResort = types.Gemini

// BuildCandidates returns the ordered, duplicate-free providers to try.
//
// A recognized preferred provider always comes first, whether or not it has a
// key. Otherwise the default provider is used: the configured default when it
// is recognized and keyed, else the first keyed entry of DefaultPriority, else
// LastResort. When fallback is enabled the configured fallback providers that
// are recognized and keyed are appended. A nil config yields nil.
func BuildCandidates(cfg *config.Config, preferred types.ProviderID) []types.ProviderID {
	if cfg == nil {
		return nil
	}

	var first types.ProviderID
	if id, ok := types.ParseProviderID(string(preferred)); ok && id != types.Default {
		first = id
	} else {
		first = DefaultProvider(cfg)
	}

	candidates := []types.ProviderID{first}
	if !cfg.Routing.FallbackEnabled {
		return candidates
	}

	seen := map[types.ProviderID]bool{first: true}
	for _, raw := range cfg.Routing.FallbackProviders {
		id, ok := types.ParseProviderID(raw)
		if !ok || id == types.Default || seen[id] || !cfg.HasKey(id) {
			continue
		}
		seen[id] = true
		candidates = append(candidates, id)
	}
	return candidates
}

// DefaultProvider resolves the provider used when the caller expresses no
// preference.
func DefaultProvider(cfg *config.Config) types.ProviderID {
	if id, ok := types.ParseProviderID(cfg.Routing.DefaultProvider); ok && id != types.Default && cfg.HasKey(id) {
		return id
	}
	for _, id := range DefaultPriority {
		if cfg.HasKey(id) {
			return id
		}
	}
	return LastResort
}
