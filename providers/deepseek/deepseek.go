// Package deepseek provides the DeepSeek adapter.
package deepseek

import (
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/openailike"
)

const (
	DefaultBaseURL = "https://api.deepseek.com/v1"
	DefaultModel   = "deepseek-chat"
)

var providerInfo = openailike.Info{
	Name:           types.DeepSeek,
	DefaultBaseURL: DefaultBaseURL,
	DefaultModel:   DefaultModel,
	KeyName:        "DEEPSEEK_API_KEY",
	Temperature:    0.7,
	MaxTokens:      1000,
}

// New creates the adapter from configuration.
func New(cfg provider.Config) *openailike.Provider {
	return openailike.NewFromConfig(providerInfo, cfg)
}
