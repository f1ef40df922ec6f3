// Package openailike is the shared adapter for vendors that speak the OpenAI
// chat completions dialect: Bearer auth, POST {base}/chat/completions, an
// OpenAI-style error envelope.
package openailike

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/aimichat/llmrouter/internal/httputil"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
)

// Info describes one vendor.
type Info struct {
	Name           types.ProviderID
	DefaultBaseURL string
	DefaultModel   string
	// KeyName is reported when no API key is configured.
	KeyName string

	// ChatEndpoint defaults to "/chat/completions".
	ChatEndpoint string

	// Temperature and MaxTokens apply when the request leaves them unset.
	Temperature float64
	MaxTokens   int

	ExtraHeaders map[string]string

	// RequireContent turns a response without choices or with empty content
	// into an error instead of an empty reply.
	RequireContent bool
}

// KeySource returns the API key to use for the next request.
type KeySource func() (string, error)

// Provider implements provider.Adapter for an OpenAI-compatible vendor.
type Provider struct {
	info    Info
	keys    KeySource
	baseURL string
	model   string
	headers map[string]string
}

// Option configures a Provider.
type Option func(*Provider)

// WithAPIKey sets a static API key.
func WithAPIKey(key string) Option {
	return func(p *Provider) {
		p.keys = func() (string, error) { return key, nil }
	}
}

// WithKeySource sets a dynamic key source (rotation, token signing).
func WithKeySource(src KeySource) Option {
	return func(p *Provider) { p.keys = src }
}

// WithBaseURL overrides the vendor endpoint. Empty keeps the default.
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		if u != "" {
			p.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithDefaultModel overrides the vendor default model. Empty keeps the default.
func WithDefaultModel(m string) Option {
	return func(p *Provider) {
		if m != "" {
			p.model = m
		}
	}
}

// WithHeaders adds request headers.
func WithHeaders(h map[string]string) Option {
	return func(p *Provider) {
		for k, v := range h {
			p.headers[k] = v
		}
	}
}

// New creates a new OpenAI-like provider.
func New(info Info, opts ...Option) *Provider {
	p := &Provider{
		info:    info,
		baseURL: info.DefaultBaseURL,
		model:   info.DefaultModel,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.keys == nil {
		p.keys = func() (string, error) { return "", nil }
	}
	return p
}

// NewFromConfig creates a provider from a provider.Config. Extra options are
// applied after the config values.
func NewFromConfig(info Info, cfg provider.Config, opts ...Option) *Provider {
	base := []Option{
		WithAPIKey(cfg.APIKey),
		WithBaseURL(cfg.BaseURL),
		WithDefaultModel(cfg.DefaultModel),
		WithHeaders(cfg.Headers),
	}
	return New(info, append(base, opts...)...)
}

// Name returns the provider identifier.
func (p *Provider) Name() types.ProviderID { return p.info.Name }

// DefaultModel returns the model used when a request names none.
func (p *Provider) DefaultModel() string { return p.model }

// BaseURL returns the effective endpoint.
func (p *Provider) BaseURL() string { return p.baseURL }

// ChatBody builds the JSON body for req.
func (p *Provider) ChatBody(req *provider.Request) *types.ChatRequest {
	body := &types.ChatRequest{
		Model:       provider.ResolveModel(req, p.model),
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = p.info.MaxTokens
	}
	if body.Temperature == nil && p.info.Temperature > 0 {
		body.Temperature = types.Float64(p.info.Temperature)
	}
	return body
}

// BuildRequest creates the HTTP request for the chat completions endpoint.
func (p *Provider) BuildRequest(ctx context.Context, req *provider.Request) (*http.Request, error) {
	key, err := p.keys()
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errors.NewMissingKeyError(string(p.info.Name), p.info.KeyName)
	}

	body, err := json.Marshal(p.ChatBody(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := p.info.ChatEndpoint
	if endpoint == "" {
		endpoint = "/chat/completions"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)
	for k, v := range p.info.ExtraHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range p.headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// ParseResponse returns the first choice's content.
func (p *Provider) ParseResponse(resp *http.Response, model string) (string, error) {
	body, err := httputil.ReadBody(resp.Body, httputil.MaxResponseBody)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp types.ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	content := chatResp.FirstContent()
	if content == "" && p.info.RequireContent {
		if len(chatResp.Choices) == 0 {
			return "", errors.NewEmptyResponseError(string(p.info.Name), model, "response contained no choices")
		}
		return "", errors.NewEmptyResponseError(string(p.info.Name), model, "response content was empty")
	}
	return content, nil
}

// MapError converts an error response into an *errors.LLMError, keeping the
// raw body for development logs.
func (p *Provider) MapError(statusCode int, body []byte, model string) error {
	llmErr := errors.FromStatus(statusCode, string(p.info.Name), model, ErrorMessage(statusCode, body))
	llmErr.Body = string(body)
	return llmErr
}

// maxMessageLen caps vendor error text, in runes.
const maxMessageLen = 300

// ErrorMessage extracts a readable message from an error body. It handles
// {"error":{"message":...}}, {"error":"..."} and {"message":...}, and
// otherwise falls back to the raw text.
func ErrorMessage(statusCode int, body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if len(envelope.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
			var flat string
			if json.Unmarshal(envelope.Error, &flat) == nil && flat != "" {
				return flat
			}
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("API error: %d %s", statusCode, http.StatusText(statusCode))
	}
	if utf8.RuneCountInString(text) > maxMessageLen {
		text = string([]rune(text)[:maxMessageLen])
	}
	return fmt.Sprintf("API error: %d %s", statusCode, text)
}
