package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aimichat/llmrouter/pkg/types"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// envPrefixes maps providers to their variable prefix (<P>_API_KEY, <P>_BASE_URL, <P>_DEFAULT_MODEL).
var envPrefixes = map[types.ProviderID]string{
	types.Silicon:    "SILICON",
	types.Gemini:     "GEMINI",
	types.Zhipu:      "ZHIPU",
	types.Moonshot:   "MOONSHOT",
	types.DeepSeek:   "DEEPSEEK",
	types.OpenRouter: "OPENROUTER",
	types.OpenAI:     "OPENAI",
}

// FromEnv builds a configuration from the process environment.
func FromEnv() *Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a configuration from defaults plus the variables lookup returns.
func FromLookup(lookup LookupFunc) *Config {
	cfg := DefaultConfig()
	cfg.applyEnv(lookup)
	return cfg
}

// applyEnv overrides cfg with every non-empty variable lookup knows about.
func (c *Config) applyEnv(lookup LookupFunc) {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("APP_ENV"); ok {
		c.Environment = v
	} else if v, ok := get("NODE_ENV"); ok {
		c.Environment = v
	}

	for _, id := range types.KnownProviders() {
		p := c.Providers[id]
		for _, name := range credentialNames[id] {
			if v, ok := get(name); ok {
				p.APIKey = v
				break
			}
		}
		prefix := envPrefixes[id]
		if v, ok := get(prefix + "_BASE_URL"); ok {
			p.BaseURL = v
		}
		if v, ok := get(prefix + "_DEFAULT_MODEL"); ok {
			p.DefaultModel = v
		}
		if p != (ProviderSettings{}) {
			c.Providers[id] = p
		}
	}

	if v, ok := get("LLM_DEFAULT_PROVIDER"); ok {
		c.Routing.DefaultProvider = v
	}
	if v, ok := get("LLM_DEFAULT_MODEL"); ok {
		c.Routing.DefaultModel = v
	}
	if v, ok := get("LLM_ENABLE_FALLBACK"); ok {
		c.Routing.FallbackEnabled = v == "true"
	}
	if v, ok := get("LLM_FALLBACK_PROVIDERS"); ok {
		c.Routing.FallbackProviders = splitList(v)
	}
	if v, ok := get("GOOGLE_MODEL_3"); ok {
		c.Routing.GeminiFlashModel = v
	}
	c.durationEnv(get, "LLM_ATTEMPT_TIMEOUT", &c.Routing.AttemptTimeout)
	c.durationEnv(get, "LLM_FALLBACK_ATTEMPT_TIMEOUT", &c.Routing.FallbackAttemptTimeout)
	c.durationEnv(get, "LLM_SAME_VENDOR_DELAY", &c.Routing.SameVendorDelay)
	c.durationEnv(get, "LLM_REQUEST_TIMEOUT", &c.Routing.RequestTimeout)

	if v, ok := get("NEXT_PUBLIC_APP_URL"); ok {
		c.App.URL = v
	}
	if v, ok := get("APP_TITLE"); ok {
		c.App.Title = v
	}
	if v, ok := get("DEV_ADMIN_SECRET"); ok {
		c.App.AdminSecret = v
	}

	if v, ok := get("PORT"); ok {
		c.Server.Addr = ":" + v
	}
	if v, ok := get("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		c.Tracing.Enabled = true
		c.Tracing.Endpoint = v
	}

	if _, ok := get("LLM_HEALTHCHECK_INTERVAL"); ok {
		c.HealthCheck.Enabled = true
		c.durationEnv(get, "LLM_HEALTHCHECK_INTERVAL", &c.HealthCheck.Interval)
	}

	if v, ok := get("VAULT_ADDR"); ok {
		c.Secrets.Vault.Address = v
	}
	if v, ok := get("VAULT_TOKEN"); ok {
		c.Secrets.Vault.Token = v
	}
	if v, ok := get("VAULT_ROLE_ID"); ok {
		c.Secrets.Vault.RoleID = v
	}
	if v, ok := get("VAULT_SECRET_ID"); ok {
		c.Secrets.Vault.SecretID = v
	}
}

func (c *Config) durationEnv(get func(string) (string, bool), name string, dst *time.Duration) {
	v, ok := get(name)
	if !ok {
		return
	}
	d, err := parseDuration(v)
	if err != nil {
		c.notes = append(c.notes, fmt.Sprintf("%s: %v; keeping %s", name, err, *dst))
		return
	}
	*dst = d
}

// parseDuration accepts Go duration strings ("8s") or bare milliseconds ("8000").
func parseDuration(v string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative duration %q", v)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
