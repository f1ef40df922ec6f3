// Package siliconflow provides the SiliconFlow adapter. SILICON_API_KEY may
// hold several comma-separated keys; each request picks one at random to
// spread quota across accounts.
package siliconflow

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/observability"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/openailike"
)

const (
	DefaultBaseURL = "https://api.siliconflow.cn/v1"
	DefaultModel   = "Qwen/Qwen2.5-7B-Instruct"
)

var providerInfo = openailike.Info{
	Name:           types.Silicon,
	DefaultBaseURL: DefaultBaseURL,
	DefaultModel:   DefaultModel,
	KeyName:        "SILICON_API_KEY",
	Temperature:    0.7,
	MaxTokens:      1000,
}

// Provider is the SiliconFlow adapter.
type Provider struct {
	*openailike.Provider
	keys   []string
	pick   func(n int) int
	logger *slog.Logger
}

// Option configures the provider.
type Option func(*Provider)

// WithPicker replaces the random key picker. Used by tests.
func WithPicker(pick func(n int) int) Option {
	return func(p *Provider) { p.pick = pick }
}

// New creates the adapter from configuration.
func New(cfg provider.Config, logger *slog.Logger, opts ...Option) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{
		keys:   config.SplitKeys(cfg.APIKey),
		pick:   rand.IntN,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Provider = openailike.NewFromConfig(providerInfo, cfg, openailike.WithKeySource(p.nextKey))
	return p
}

// KeyCount returns the number of usable keys.
func (p *Provider) KeyCount() int { return len(p.keys) }

func (p *Provider) nextKey() (string, error) {
	if len(p.keys) == 0 {
		p.logger.Error("no SiliconFlow API keys configured", "key_name", providerInfo.KeyName)
		return "", nil
	}
	idx := p.pick(len(p.keys))
	key := p.keys[idx]
	p.logger.Debug("siliconflow key selected",
		"key_index", idx+1,
		"key_count", len(p.keys),
		"key", observability.MaskKey(key),
	)
	return key, nil
}
