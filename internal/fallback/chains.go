// Package fallback tries fixed chains of (provider, model) pairs, moving to
// the next pair on any failure.
package fallback

import (
	"sort"
	"strings"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/pkg/types"
)

// Candidate is one entry of a fallback chain.
type Candidate struct {
	Provider    types.ProviderID `json:"provider"`
	Model       string           `json:"model"`
	DisplayName string           `json:"display_name"`
}

// Label returns "provider/model".
func (c Candidate) Label() string { return string(c.Provider) + "/" + c.Model }

// DefaultGroup is the chain used for providers without a chain of their own.
const DefaultGroup = "default"

// groupAliases maps alternative spellings onto a provider id.
var groupAliases = map[string]types.ProviderID{
	"google":      types.Gemini,
	"siliconflow": types.Silicon,
}

// NormalizeProvider lower-cases a provider name and resolves aliases such as
// "google" to "gemini".
func NormalizeProvider(name string) types.ProviderID {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := groupAliases[key]; ok {
		return id
	}
	return types.ProviderID(key)
}

// Chains builds the key-filtered chain table from cfg. It is rebuilt on
// every call so configuration changes apply to the next request. Entries
// whose provider has no key are dropped; a group may end up empty.
func Chains(cfg *config.Config) map[string][]Candidate {
	geminiModel := config.DefaultGeminiFlashModel
	if cfg.Routing.GeminiFlashModel != "" {
		geminiModel = cfg.Routing.GeminiFlashModel
	}

	var (
		gemini          = Candidate{types.Gemini, geminiModel, "Gemini 2.5 Flash"}
		qwen            = Candidate{types.Silicon, "Qwen/Qwen2.5-14B-Instruct", "Qwen 2.5 14B"}
		siliconDeepSeek = Candidate{types.Silicon, "deepseek-ai/DeepSeek-V3", "DeepSeek V3 (Silicon)"}
		deepseek        = Candidate{types.DeepSeek, "deepseek-chat", "DeepSeek Chat"}
		moonshot        = Candidate{types.Moonshot, "moonshot-v1-32k", "Moonshot V1 32K"}
		openrouter      = Candidate{types.OpenRouter, "meta-llama/llama-3.3-70b-instruct", "Llama 3.3 70B (OpenRouter)"}
		zhipu           = Candidate{types.Zhipu, "glm-4-plus", "GLM-4 Plus"}
	)

	geminiChain := []Candidate{gemini, qwen, siliconDeepSeek, deepseek, moonshot, openrouter}
	siliconChain := []Candidate{siliconDeepSeek, qwen, gemini, deepseek, moonshot, openrouter}

	raw := map[string][]Candidate{
		"gemini":      geminiChain,
		"google":      geminiChain,
		"silicon":     siliconChain,
		"siliconflow": siliconChain,
		"deepseek":    {deepseek, siliconDeepSeek, qwen, gemini, moonshot, openrouter},
		"zhipu":       {zhipu, qwen, siliconDeepSeek, deepseek, gemini},
		"moonshot":    {moonshot, gemini, qwen, siliconDeepSeek, deepseek, openrouter},
		"openrouter":  {openrouter, gemini, qwen, siliconDeepSeek, deepseek, moonshot},
		DefaultGroup:  {qwen, siliconDeepSeek, deepseek, gemini, moonshot, openrouter},
	}

	chains := make(map[string][]Candidate, len(raw))
	for group, chain := range raw {
		filtered := make([]Candidate, 0, len(chain))
		for _, c := range chain {
			if cfg.HasKey(c.Provider) {
				filtered = append(filtered, c)
			}
		}
		chains[group] = filtered
	}
	return chains
}

// ChainFor returns the chain for a provider group, or the default chain.
func ChainFor(chains map[string][]Candidate, provider string) []Candidate {
	if chain, ok := chains[strings.ToLower(strings.TrimSpace(provider))]; ok {
		return chain
	}
	return chains[DefaultGroup]
}

// EmptyGroups lists the groups left without candidates, sorted.
func EmptyGroups(chains map[string][]Candidate) []string {
	var out []string
	for group, chain := range chains {
		if len(chain) == 0 {
			out = append(out, group)
		}
	}
	sort.Strings(out)
	return out
}
