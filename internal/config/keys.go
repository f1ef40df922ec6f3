package config

import (
	"strings"

	"github.com/aimichat/llmrouter/pkg/types"
)

// credentialNames lists the accepted environment variables per provider.
var credentialNames = map[types.ProviderID][]string{
	types.Silicon:    {"SILICON_API_KEY"},
	types.Gemini:     {"GEMINI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY"},
	types.Zhipu:      {"ZHIPU_API_KEY"},
	types.Moonshot:   {"MOONSHOT_API_KEY"},
	types.DeepSeek:   {"DEEPSEEK_API_KEY"},
	types.OpenRouter: {"OPENROUTER_API_KEY"},
	types.OpenAI:     {"OPENAI_API_KEY"},
}

// CredentialNames returns the environment variable names accepted as the
// API key of id, in lookup order. Unknown ids yield nil.
func CredentialNames(id types.ProviderID) []string {
	return append([]string(nil), credentialNames[id]...)
}

var quoteStripper = strings.NewReplacer(`"`, "", "'", "")

// SplitKeys splits a comma-separated key list, trimming whitespace, removing
// quote characters and dropping empty entries.
func SplitKeys(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		k := strings.TrimSpace(quoteStripper.Replace(part))
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Keys returns the usable API keys for id.
func (c *Config) Keys(id types.ProviderID) []string {
	return SplitKeys(c.Provider(id).APIKey)
}

// HasKey reports whether id has at least one usable API key.
// Unrecognized identifiers are assumed to be available so that an
// explicitly requested provider fails at call time instead of being skipped.
func (c *Config) HasKey(id types.ProviderID) bool {
	if !id.Known() {
		return true
	}
	return len(c.Keys(id)) > 0
}

// ConfiguredProviders returns the known providers that have a key, in
// canonical order.
func (c *Config) ConfiguredProviders() []types.ProviderID {
	var ids []types.ProviderID
	for _, id := range types.KnownProviders() {
		if c.HasKey(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
