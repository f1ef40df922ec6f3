package types //nolint:revive // package name is intentional

import "strings"

// ProviderID identifies an LLM vendor from a fixed, closed set.
type ProviderID string

const (
	Silicon    ProviderID = "silicon"
	Gemini     ProviderID = "gemini"
	Zhipu      ProviderID = "zhipu"
	Moonshot   ProviderID = "moonshot"
	DeepSeek   ProviderID = "deepseek"
	OpenRouter ProviderID = "openrouter"
	OpenAI     ProviderID = "openai"

	// Default lets the router decide.
	Default ProviderID = "default"
)

var knownProviders = []ProviderID{Silicon, Gemini, Zhipu, Moonshot, DeepSeek, OpenRouter, OpenAI}

// KnownProviders returns the recognized provider identifiers in a stable order.
func KnownProviders() []ProviderID {
	out := make([]ProviderID, len(knownProviders))
	copy(out, knownProviders)
	return out
}

// Known reports whether id is a recognized, non-default provider.
func (id ProviderID) Known() bool {
	for _, k := range knownProviders {
		if id == k {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (id ProviderID) String() string { return string(id) }

// ParseProviderID normalizes s and reports whether it names a known provider.
// The empty string and "default" map to Default with ok=true.
func ParseProviderID(s string) (ProviderID, bool) {
	id := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	if id == "" || id == Default {
		return Default, true
	}
	if id.Known() {
		return id, true
	}
	return id, false
}
