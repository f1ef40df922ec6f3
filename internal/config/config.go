// Package config holds the routing configuration: provider credentials,
// default provider, fallback settings and server options. A Config is treated
// as immutable once built; hot reload swaps whole values.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aimichat/llmrouter/pkg/types"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the complete routing configuration.
type Config struct {
	Environment string                                `yaml:"environment"`
	Routing     RoutingConfig                         `yaml:"routing"`
	Providers   map[types.ProviderID]ProviderSettings `yaml:"providers"`
	App         AppConfig                             `yaml:"app"`
	Server      ServerConfig                          `yaml:"server"`
	Tracing     TracingConfig                         `yaml:"tracing"`
	Secrets     SecretsConfig                         `yaml:"secrets"`
	HealthCheck HealthCheckConfig                     `yaml:"healthcheck"`

	// parse problems found while reading the environment
	notes []string
}

// RoutingConfig contains provider selection and fallback settings.
type RoutingConfig struct {
	DefaultProvider   string   `yaml:"default_provider"`
	DefaultModel      string   `yaml:"default_model"`
	FallbackEnabled   bool     `yaml:"fallback_enabled"`
	FallbackProviders []string `yaml:"fallback_providers"`
	// GeminiFlashModel is the stable flash alias used by the fallback chains.
	GeminiFlashModel string `yaml:"gemini_flash_model"`

	AttemptTimeout         time.Duration `yaml:"attempt_timeout"`          // 0 = adapter timeout only
	FallbackAttemptTimeout time.Duration `yaml:"fallback_attempt_timeout"` // per attempt in fallback chains
	SameVendorDelay        time.Duration `yaml:"same_vendor_delay"`        // pause between attempts on one provider
	RequestTimeout         time.Duration `yaml:"request_timeout"`          // HTTP client timeout
}

// ProviderSettings holds one provider's credentials and overrides.
// APIKey may contain several comma-separated keys, or a secret reference
// such as "env://NAME" or "vault://path#field".
type ProviderSettings struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	DefaultModel string `yaml:"default_model"`
}

// AppConfig describes the calling application.
type AppConfig struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	AdminSecret string `yaml:"admin_secret"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr         string          `yaml:"addr"`
	ReadTimeout  time.Duration   `yaml:"read_timeout"`
	WriteTimeout time.Duration   `yaml:"write_timeout"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines per-client rate limiting parameters.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	BurstSize         int  `yaml:"burst_size"`
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRate  float64 `yaml:"sample_rate"`
	Insecure    bool    `yaml:"insecure"`
}

// HealthCheckConfig controls periodic key probing by the server.
type HealthCheckConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// SecretsConfig configures resolution of secret references in API keys.
type SecretsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Vault    VaultConfig   `yaml:"vault"`
}

// VaultConfig contains HashiCorp Vault connection settings.
type VaultConfig struct {
	Address  string `yaml:"address"`
	Token    string `yaml:"token"`
	RoleID   string `yaml:"role_id"`
	SecretID string `yaml:"secret_id"`
}

// Enabled reports whether Vault credentials are present.
func (v VaultConfig) Enabled() bool {
	return v.Token != "" || v.RoleID != ""
}

// DefaultGeminiFlashModel is the stable Gemini alias used when none is configured.
const DefaultGeminiFlashModel = "gemini-2.5-flash"

// DefaultConfig returns a configuration with defaults and no credentials.
func DefaultConfig() *Config {
	return &Config{
		Environment: EnvProduction,
		Routing: RoutingConfig{
			GeminiFlashModel:       DefaultGeminiFlashModel,
			FallbackAttemptTimeout: 8 * time.Second,
			RequestTimeout:         60 * time.Second,
		},
		Providers: make(map[types.ProviderID]ProviderSettings),
		App: AppConfig{
			URL:   "http://localhost:3000",
			Title: "Almi Chat",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 60,
				BurstSize:         10,
			},
		},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			ServiceName: "llmrouter",
			SampleRate:  1.0,
			Insecure:    true,
		},
		Secrets: SecretsConfig{
			CacheTTL: 5 * time.Minute,
		},
		HealthCheck: HealthCheckConfig{
			Interval: 5 * time.Minute,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Routing.FallbackProviders = append([]string(nil), c.Routing.FallbackProviders...)
	out.Providers = make(map[types.ProviderID]ProviderSettings, len(c.Providers))
	for id, p := range c.Providers {
		out.Providers[id] = p
	}
	out.notes = append([]string(nil), c.notes...)
	return &out
}

// Development reports whether the process runs in development mode.
func (c *Config) Development() bool {
	switch strings.ToLower(c.Environment) {
	case "dev", EnvDevelopment:
		return true
	}
	return false
}

// Provider returns the settings for id (zero value when absent).
func (c *Config) Provider(id types.ProviderID) ProviderSettings {
	if c == nil {
		return ProviderSettings{}
	}
	return c.Providers[id]
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	r := c.Routing
	if r.AttemptTimeout < 0 || r.FallbackAttemptTimeout < 0 || r.SameVendorDelay < 0 || r.RequestTimeout < 0 {
		return fmt.Errorf("routing durations must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RequestsPerMinute <= 0 || rl.BurstSize <= 0) {
		return fmt.Errorf("rate_limit: requests_per_minute and burst_size must be positive")
	}
	if c.HealthCheck.Enabled && c.HealthCheck.Interval <= 0 {
		return fmt.Errorf("healthcheck interval must be positive")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing sample_rate must be within [0, 1]: %v", c.Tracing.SampleRate)
	}
	for id := range c.Providers {
		if !id.Known() {
			return fmt.Errorf("unknown provider %q in providers section", id)
		}
	}
	return nil
}

// Warnings returns non-fatal problems that make routing degrade silently.
func (c *Config) Warnings() []string {
	var warnings []string
	warnings = append(warnings, c.notes...)

	if p := c.Routing.DefaultProvider; p != "" {
		id, ok := types.ParseProviderID(p)
		switch {
		case !ok:
			warnings = append(warnings, fmt.Sprintf("default provider %q is not recognized and will be ignored", p))
		case id != types.Default && !c.HasKey(id):
			warnings = append(warnings, fmt.Sprintf("default provider %q has no API key configured", p))
		}
	}

	if c.Routing.FallbackEnabled && len(c.Routing.FallbackProviders) == 0 {
		warnings = append(warnings, "fallback is enabled but no fallback providers are listed")
	}
	for _, p := range c.Routing.FallbackProviders {
		if _, ok := types.ParseProviderID(p); !ok {
			warnings = append(warnings, fmt.Sprintf("fallback provider %q is not recognized and will be skipped", p))
		}
	}

	if len(c.ConfiguredProviders()) == 0 {
		warnings = append(warnings, "no provider API keys are configured")
	}
	return warnings
}

// Resolver resolves secret references. *secret.Manager implements it.
type Resolver interface {
	Resolve(ctx context.Context, value string) (string, error)
}

// ResolveSecrets returns a copy of c with every provider API key passed
// through r. Literal keys come back unchanged.
func (c *Config) ResolveSecrets(ctx context.Context, r Resolver) (*Config, error) {
	out := c.Clone()
	for id, p := range out.Providers {
		if p.APIKey == "" {
			continue
		}
		key, err := r.Resolve(ctx, p.APIKey)
		if err != nil {
			return nil, fmt.Errorf("resolve api key for %s: %w", id, err)
		}
		p.APIKey = key
		out.Providers[id] = p
	}
	return out, nil
}
