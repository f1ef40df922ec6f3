// Package status reports which providers are usable without exposing keys.
package status

import (
	stderrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/fallback"
	"github.com/aimichat/llmrouter/internal/router"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/types"
)

// Summary states.
const (
	StateOperational = "operational"
	StateNoProviders = "no_providers"
)

// notSet is reported for unset string settings.
const notSet = "not set"

// ProviderStatus describes one provider's credential state.
type ProviderStatus struct {
	Configured bool   `json:"configured"`
	KeyName    string `json:"keyName"`
	KeyCount   int    `json:"keyCount"`
}

// Summary counts configured providers.
type Summary struct {
	Total      int    `json:"total"`
	Configured int    `json:"configured"`
	Missing    int    `json:"missing"`
	Status     string `json:"status"`
}

// RoutingStatus echoes the routing configuration.
type RoutingStatus struct {
	DefaultProvider   string `json:"defaultProvider"`
	EffectiveDefault  string `json:"effectiveDefault"`
	FallbackEnabled   bool   `json:"fallbackEnabled"`
	FallbackProviders string `json:"fallbackProviders"`
	MaxAttempts       int    `json:"maxAttempts"`
}

// Report is the body of the LLM status endpoint.
type Report struct {
	Summary   Summary                             `json:"summary"`
	Providers map[types.ProviderID]ProviderStatus `json:"providers"`
	Config    RoutingStatus                       `json:"config"`
	Timestamp time.Time                           `json:"timestamp"`
}

// Build assembles a Report from cfg.
func Build(cfg *config.Config, now time.Time) *Report {
	r := &Report{
		Providers: make(map[types.ProviderID]ProviderStatus),
		Timestamp: now.UTC(),
	}
	for _, id := range types.KnownProviders() {
		keys := cfg.Keys(id)
		r.Providers[id] = ProviderStatus{
			Configured: len(keys) > 0,
			KeyName:    strings.Join(config.CredentialNames(id), " or "),
			KeyCount:   len(keys),
		}
		r.Summary.Total++
		if len(keys) > 0 {
			r.Summary.Configured++
		}
	}
	r.Summary.Missing = r.Summary.Total - r.Summary.Configured
	r.Summary.Status = StateNoProviders
	if r.Summary.Configured > 0 {
		r.Summary.Status = StateOperational
	}

	r.Config = RoutingStatus{
		DefaultProvider:   orNotSet(cfg.Routing.DefaultProvider),
		EffectiveDefault:  string(router.DefaultProvider(cfg)),
		FallbackEnabled:   cfg.Routing.FallbackEnabled,
		FallbackProviders: orNotSet(strings.Join(cfg.Routing.FallbackProviders, ",")),
		MaxAttempts:       router.MaxAttempts,
	}
	return r
}

// Availability is one provider's entry in a Health report.
type Availability struct {
	Available bool `json:"available"`
}

// HealthConfig echoes the fallback configuration.
type HealthConfig struct {
	DefaultProvider string `json:"defaultProvider"`
	FallbackEnabled bool   `json:"fallbackEnabled"`
	MaxAttempts     int    `json:"maxAttempts"`
}

// Health is the body of the key health endpoint.
type Health struct {
	Providers map[types.ProviderID]Availability `json:"providers"`
	Config    HealthConfig                      `json:"config"`
	// Probes holds the latest periodic key test per provider when the
	// server runs a prober.
	Probes map[types.ProviderID]KeyTestResult `json:"probes,omitempty"`
}

// BuildHealth reports key availability per provider.
func BuildHealth(cfg *config.Config) *Health {
	h := &Health{Providers: make(map[types.ProviderID]Availability)}
	for _, id := range types.KnownProviders() {
		h.Providers[id] = Availability{Available: cfg.HasKey(id)}
	}
	h.Config = HealthConfig{
		DefaultProvider: string(router.DefaultProvider(cfg)),
		FallbackEnabled: cfg.Routing.FallbackEnabled,
		MaxAttempts:     fallback.MaxAttempts,
	}
	return h
}

func orNotSet(s string) string {
	if s == "" {
		return notSet
	}
	return s
}

// Key test outcomes.
const (
	TestOK   = "ok"
	TestFail = "fail"
)

// Key test error codes.
const (
	CodeAuth          = "AUTH_ERROR"
	CodeAPIKeyInvalid = "API_KEY_INVALID"
	CodeTimeout       = "TIMEOUT"
	CodeRateLimit     = "RATE_LIMIT"
	CodeOverloaded    = "OVERLOADED"
	CodeUnknown       = "UNKNOWN"
)

// KeyTestTimeout bounds a key test call.
const KeyTestTimeout = 5 * time.Second

// KeyTestPrompt is the message sent by a key test.
const KeyTestPrompt = "ping"

// KeyTestResult is the outcome of a single-provider connectivity test.
type KeyTestResult struct {
	Status       string           `json:"status"`
	Provider     types.ProviderID `json:"provider"`
	Model        string           `json:"model"`
	LatencyMs    int64            `json:"latencyMs"`
	Reply        string           `json:"reply,omitempty"`
	ErrorCode    string           `json:"errorCode,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	HTTPStatus   int              `json:"httpStatus,omitempty"`
}

// NewKeyTestResult builds a result from a provider call. The reply is cut to
// 50 characters and the error message to 100.
func NewKeyTestResult(id types.ProviderID, model, reply string, err error, latency time.Duration) *KeyTestResult {
	if model == "" {
		model = "default"
	}
	r := &KeyTestResult{
		Provider:  id,
		Model:     model,
		LatencyMs: latency.Milliseconds(),
	}
	if err == nil {
		r.Status = TestOK
		r.Reply = truncate(reply, 50)
		return r
	}
	r.Status = TestFail
	r.HTTPStatus = errors.StatusCode(err)
	r.ErrorCode = ClassifyTestError(err)
	r.ErrorMessage = truncate(err.Error(), 100)
	return r
}

// ClassifyTestError maps a key test failure onto an error code. Later checks
// win, so a 429 whose message mentions the API key is still RATE_LIMIT.
func ClassifyTestError(err error) string {
	status := errors.StatusCode(err)
	msg := strings.ToLower(err.Error())

	code := CodeUnknown
	if status == 401 || status == 403 {
		code = CodeAuth
	}
	if strings.Contains(msg, "api key") {
		code = CodeAPIKeyInvalid
	}
	var llmErr *errors.LLMError
	if strings.Contains(msg, "timeout") ||
		(stderrors.As(err, &llmErr) && llmErr.Type == errors.TypeTimeout) {
		code = CodeTimeout
	}
	if status == 429 {
		code = CodeRateLimit
	}
	if status == 503 {
		code = CodeOverloaded
	}
	return code
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
