package llmrouter

import (
	"net/http"
	"time"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/observability"
	"github.com/aimichat/llmrouter/pkg/provider"
)

// ClientConfig holds the construction options of a Client.
type ClientConfig struct {
	// Source supplies the routing configuration on every call. A
	// *config.Manager also triggers a registry rebuild on reload.
	Source config.Source

	// HTTPClient is shared by all provider adapters.
	HTTPClient *http.Client
	// Timeout is the HTTP client timeout when HTTPClient is nil.
	Timeout time.Duration

	Logger *observability.Logger

	// ProviderClients replace the configured adapters with the same ids.
	ProviderClients []provider.Client
}

// Option configures a Client.
type Option func(*ClientConfig)

func defaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout: 60 * time.Second,
	}
}

// WithConfig uses a fixed configuration.
func WithConfig(cfg *config.Config) Option {
	return func(c *ClientConfig) {
		c.Source = config.NewStatic(cfg)
	}
}

// WithSource reads configuration from src on every call.
func WithSource(src config.Source) Option {
	return func(c *ClientConfig) {
		c.Source = src
	}
}

// WithHTTPClient sets the HTTP client used by provider adapters.
func WithHTTPClient(client *http.Client) Option {
	return func(c *ClientConfig) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the HTTP client timeout. Ignored with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *ClientConfig) {
		c.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *observability.Logger) Option {
	return func(c *ClientConfig) {
		c.Logger = logger
	}
}

// WithProviderClient registers a client in place of the configured adapter
// for the same provider id.
func WithProviderClient(client provider.Client) Option {
	return func(c *ClientConfig) {
		c.ProviderClients = append(c.ProviderClients, client)
	}
}
