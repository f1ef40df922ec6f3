// Package gemini provides the Google Gemini adapter (generateContent API).
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/aimichat/llmrouter/internal/httputil"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/openailike"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
	keyName        = "GEMINI_API_KEY or GOOGLE_GENERATIVE_AI_API_KEY"
	apiKeyHeader   = "x-goog-api-key"
)

// PlaceholderPrompt is sent when the conversation has no user or assistant
// turns, since the API rejects empty contents.
const PlaceholderPrompt = "Hãy bắt đầu một cuộc trò chuyện ngọt ngào bằng tiếng Việt với người yêu của bạn."

// Provider is the Gemini adapter.
type Provider struct {
	apiKey  string
	baseURL string
	model   string
}

// New creates the adapter from configuration.
func New(cfg provider.Config) *Provider {
	p := &Provider{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
	}
	if cfg.BaseURL != "" {
		p.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if cfg.DefaultModel != "" {
		p.model = cfg.DefaultModel
	}
	return p
}

// Name returns the provider identifier.
func (p *Provider) Name() types.ProviderID { return types.Gemini }

// DefaultModel returns the model used when a request names none.
func (p *Provider) DefaultModel() string { return p.model }

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// buildBody converts messages into a generateContent body: the first system
// message becomes systemInstruction, further system messages are sent as user
// turns, and assistant turns use the "model" role.
func buildBody(req *provider.Request) *generateRequest {
	body := &generateRequest{}
	for _, m := range req.Messages {
		if m.Role == types.RoleSystem && body.SystemInstruction == nil {
			body.SystemInstruction = &content{Role: "system", Parts: []part{{Text: m.Content}}}
			continue
		}
		role := "user"
		if m.Role == types.RoleAssistant {
			role = "model"
		}
		body.Contents = append(body.Contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	if len(body.Contents) == 0 {
		body.Contents = []content{{Role: "user", Parts: []part{{Text: PlaceholderPrompt}}}}
	}
	if req.MaxTokens > 0 || req.Temperature != nil {
		body.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}
	return body
}

// BuildRequest creates the generateContent request. The key travels in the
// x-goog-api-key header so it never appears in URLs.
func (p *Provider) BuildRequest(ctx context.Context, req *provider.Request) (*http.Request, error) {
	if p.apiKey == "" {
		return nil, errors.NewMissingKeyError(string(types.Gemini), keyName)
	}
	model := provider.ResolveModel(req, p.model)
	if len(req.Messages) == 0 {
		return nil, errors.NewInvalidRequestError(string(types.Gemini), model, "no messages provided")
	}

	body, err := json.Marshal(buildBody(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, p.apiKey)
	return httpReq, nil
}

// ParseResponse joins the first candidate's text parts with a space.
func (p *Provider) ParseResponse(resp *http.Response, _ string) (string, error) {
	raw, err := httputil.ReadBody(resp.Body, httputil.MaxResponseBody)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}
	texts := make([]string, 0, len(out.Candidates[0].Content.Parts))
	for _, p := range out.Candidates[0].Content.Parts {
		texts = append(texts, p.Text)
	}
	return strings.TrimSpace(strings.Join(texts, " ")), nil
}

// MapError converts a Google API error ({"error":{"code","message","status"}}).
func (p *Provider) MapError(statusCode int, body []byte, model string) error {
	llmErr := errors.FromStatus(statusCode, string(types.Gemini), model, openailike.ErrorMessage(statusCode, body))
	llmErr.Body = string(body)
	return llmErr
}
