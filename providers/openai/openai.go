// Package openai provides a generic OpenAI-compatible adapter for any
// endpoint configured through OPENAI_BASE_URL.
package openai

import (
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/openailike"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

var providerInfo = openailike.Info{
	Name:           types.OpenAI,
	DefaultBaseURL: DefaultBaseURL,
	DefaultModel:   DefaultModel,
	KeyName:        "OPENAI_API_KEY",
	Temperature:    0.8,
	MaxTokens:      500,
}

// New creates the adapter from configuration.
func New(cfg provider.Config) *openailike.Provider {
	return openailike.NewFromConfig(providerInfo, cfg)
}
