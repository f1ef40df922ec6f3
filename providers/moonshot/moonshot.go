// Package moonshot provides the Moonshot (Kimi) adapter.
package moonshot

import (
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/openailike"
)

const (
	DefaultBaseURL = "https://api.moonshot.cn/v1"
	DefaultModel   = "moonshot-v1-32k"
)

var providerInfo = openailike.Info{
	Name:           types.Moonshot,
	DefaultBaseURL: DefaultBaseURL,
	DefaultModel:   DefaultModel,
	KeyName:        "MOONSHOT_API_KEY",
	Temperature:    0.7,
	MaxTokens:      1000,
}

// New creates the adapter from configuration.
func New(cfg provider.Config) *openailike.Provider {
	return openailike.NewFromConfig(providerInfo, cfg)
}
