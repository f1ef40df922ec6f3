// Package openrouter provides the OpenRouter adapter. OpenRouter wants the
// calling site identified through HTTP-Referer and X-Title.
package openrouter

import (
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/openailike"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "meta-llama/llama-3.3-70b-instruct"
)

var providerInfo = openailike.Info{
	Name:           types.OpenRouter,
	DefaultBaseURL: DefaultBaseURL,
	DefaultModel:   DefaultModel,
	KeyName:        "OPENROUTER_API_KEY",
	Temperature:    0.8,
	MaxTokens:      1000,
	RequireContent: true,
}

// New creates the adapter. appURL and appTitle populate the attribution headers.
func New(cfg provider.Config, appURL, appTitle string) *openailike.Provider {
	return openailike.NewFromConfig(providerInfo, cfg, openailike.WithHeaders(map[string]string{
		"HTTP-Referer": appURL,
		"X-Title":      appTitle,
	}))
}
