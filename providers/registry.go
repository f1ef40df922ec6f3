package providers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/deepseek"
	"github.com/aimichat/llmrouter/providers/gemini"
	"github.com/aimichat/llmrouter/providers/moonshot"
	"github.com/aimichat/llmrouter/providers/openai"
	"github.com/aimichat/llmrouter/providers/openrouter"
	"github.com/aimichat/llmrouter/providers/siliconflow"
	"github.com/aimichat/llmrouter/providers/zhipu"
)

// NewAdapter creates the adapter for id from the provider's settings.
func NewAdapter(id types.ProviderID, cfg *config.Config, logger *slog.Logger) (provider.Adapter, error) {
	settings := cfg.Provider(id)
	pc := provider.Config{
		APIKey:       settings.APIKey,
		BaseURL:      settings.BaseURL,
		DefaultModel: settings.DefaultModel,
	}

	switch id {
	case types.Silicon:
		return siliconflow.New(pc, logger), nil
	case types.Gemini:
		return gemini.New(pc), nil
	case types.Zhipu:
		return zhipu.New(pc), nil
	case types.Moonshot:
		return moonshot.New(pc), nil
	case types.DeepSeek:
		return deepseek.New(pc), nil
	case types.OpenRouter:
		return openrouter.New(pc, cfg.App.URL, cfg.App.Title), nil
	case types.OpenAI:
		return openai.New(pc), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", id)
	}
}

// NewRegistry registers a client for every known provider, keyed or not, so
// that a provider without a key fails at call time with a missing-key error.
// Base URL overrides are validated; private hosts are only accepted in
// development or for the generic OpenAI-compatible endpoint.
func NewRegistry(cfg *config.Config, client *http.Client, logger *slog.Logger) (*provider.Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg := provider.NewRegistry()
	for _, id := range types.KnownProviders() {
		if base := cfg.Provider(id).BaseURL; base != "" {
			allowPrivate := cfg.Development() || id == types.OpenAI
			if err := provider.ValidateBaseURL(base, allowPrivate); err != nil {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
		}
		adapter, err := NewAdapter(id, cfg, logger)
		if err != nil {
			return nil, err
		}
		reg.Register(NewExecutor(adapter, client, cfg.Routing.RequestTimeout))
	}
	return reg, nil
}
