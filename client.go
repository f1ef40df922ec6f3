package llmrouter

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/fallback"
	"github.com/aimichat/llmrouter/internal/observability"
	"github.com/aimichat/llmrouter/internal/router"
	"github.com/aimichat/llmrouter/internal/status"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers"
)

// Client is the entry point for generating replies.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	source     config.Source
	httpClient *http.Client
	logger     *observability.Logger
	overrides  []provider.Client

	registry atomic.Pointer[provider.Registry]

	router   *router.Router
	fallback *fallback.Generator
}

// changeNotifier is implemented by *config.Manager.
type changeNotifier interface {
	OnChange(fn func(*config.Config))
}

// New creates a client. Configuration must be supplied with WithConfig or
// WithSource.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Source == nil || cfg.Source.Get() == nil {
		return nil, fmt.Errorf("llmrouter: configuration is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.Discard()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: cfg.Timeout,
		}
	}

	c := &Client{
		source:     cfg.Source,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		overrides:  cfg.ProviderClients,
	}
	if err := c.rebuild(cfg.Source.Get()); err != nil {
		return nil, err
	}

	c.router = router.New(c.source, func() router.Clients { return c.registry.Load() }, c.logger)
	c.fallback = fallback.NewGenerator(c.source, c.router, c.logger)

	if n, ok := c.source.(changeNotifier); ok {
		n.OnChange(func(newCfg *config.Config) {
			if err := c.rebuild(newCfg); err != nil {
				c.logger.Error("failed to rebuild providers after reload, keeping current", "error", err)
			}
		})
	}

	current := c.source.Get()
	c.logger.Info("llmrouter client initialized",
		"configured_providers", current.ConfiguredProviders(),
		"default_provider", router.DefaultProvider(current),
		"fallback_enabled", current.Routing.FallbackEnabled,
	)
	for _, w := range current.Warnings() {
		c.logger.Warn("configuration warning", "warning", w)
	}
	return c, nil
}

// rebuild replaces the provider registry from cfg.
func (c *Client) rebuild(cfg *config.Config) error {
	reg, err := providers.NewRegistry(cfg, c.httpClient, c.logger.Slog())
	if err != nil {
		return fmt.Errorf("build providers: %w", err)
	}
	for _, pc := range c.overrides {
		reg.Register(pc)
	}
	c.registry.Store(reg)
	return nil
}

// Config returns the configuration currently in effect.
func (c *Client) Config() *config.Config {
	return c.source.Get()
}

// Generate routes messages to the preferred or default provider, falling
// back to the configured fallback providers on retriable errors. When no
// provider and no model are requested the configured default model is used.
func (c *Client) Generate(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.GenerationResult, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}
	if opts.Model == "" && (opts.Provider == "" || opts.Provider == types.Default) {
		opts.Model = c.source.Get().Routing.DefaultModel
	}
	return c.router.Generate(ctx, messages, opts)
}

// GenerateWithFallback walks the fixed fallback chain for opts.Provider.
func (c *Client) GenerateWithFallback(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.FallbackResult, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}
	return c.fallback.GenerateWithFallback(ctx, messages, opts)
}

// GenerateSmart selects models by the length of the latest user message.
func (c *Client) GenerateSmart(ctx context.Context, messages []types.Message, opts fallback.SmartOptions) (*types.SmartResult, error) {
	if err := validateMessages(messages); err != nil {
		return nil, err
	}
	return c.fallback.GenerateSmart(ctx, messages, opts)
}

// TestProvider sends a one-word prompt to a single provider without any
// fallback. The returned error is only non-nil for an unknown provider; call
// failures are reported in the result.
func (c *Client) TestProvider(ctx context.Context, id types.ProviderID, model string) (*status.KeyTestResult, error) {
	parsed, ok := types.ParseProviderID(string(id))
	if !ok || parsed == types.Default {
		return nil, errors.NewInvalidRequestError(string(id), model, "invalid provider")
	}

	req := &provider.Request{Messages: []types.Message{types.User(status.KeyTestPrompt)}, Model: model}
	start := time.Now()
	reply, _, err := c.router.Call(ctx, parsed, req, router.CallOptions{Timeout: status.KeyTestTimeout, Attempt: 1})
	return status.NewKeyTestResult(parsed, model, reply, err, time.Since(start)), nil
}

// Status reports provider configuration without exposing keys.
func (c *Client) Status() *status.Report {
	return status.Build(c.source.Get(), time.Now())
}

// Health reports key availability per provider.
func (c *Client) Health() *status.Health {
	return status.BuildHealth(c.source.Get())
}

// Providers lists the registered provider ids.
func (c *Client) Providers() []types.ProviderID {
	return c.registry.Load().IDs()
}

// Close releases idle HTTP connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func validateMessages(messages []types.Message) error {
	if len(messages) == 0 {
		return errors.NewInvalidRequestError("", "", "messages are required")
	}
	for i, m := range messages {
		if !m.Role.Valid() {
			return errors.NewInvalidRequestError("", "", fmt.Sprintf("message %d has invalid role %q", i, m.Role))
		}
	}
	return nil
}
