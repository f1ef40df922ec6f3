// Package api exposes the routing client over HTTP.
package api //nolint:revive // package name is intentional

import (
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/fallback"
	"github.com/aimichat/llmrouter/internal/observability"
	"github.com/aimichat/llmrouter/internal/selector"
	"github.com/aimichat/llmrouter/internal/status"
	llmerrors "github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/types"
)

// DefaultMaxBodySize caps request bodies (2MB).
const DefaultMaxBodySize = 2 * 1024 * 1024

// Service is the routing surface served by Handler. *llmrouter.Client
// implements it.
type Service interface {
	Generate(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.GenerationResult, error)
	GenerateWithFallback(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.FallbackResult, error)
	GenerateSmart(ctx context.Context, messages []types.Message, opts fallback.SmartOptions) (*types.SmartResult, error)
	TestProvider(ctx context.Context, id types.ProviderID, model string) (*status.KeyTestResult, error)
	Status() *status.Report
	Health() *status.Health
	Config() *config.Config
}

// ProbeResults exposes the latest periodic key tests.
// *healthcheck.Prober implements it.
type ProbeResults interface {
	Results() map[types.ProviderID]status.KeyTestResult
}

// Handler serves the generation and admin endpoints.
type Handler struct {
	svc         Service
	logger      *observability.Logger
	maxBodySize int64
	probes      ProbeResults
}

// HandlerConfig contains optional handler settings.
type HandlerConfig struct {
	MaxBodySize int64
	Probes      ProbeResults
}

// NewHandler creates a handler.
func NewHandler(svc Service, logger *observability.Logger, cfg *HandlerConfig) *Handler {
	if logger == nil {
		logger = observability.Discard()
	}
	h := &Handler{svc: svc, logger: logger, maxBodySize: DefaultMaxBodySize}
	if cfg != nil {
		if cfg.MaxBodySize > 0 {
			h.maxBodySize = cfg.MaxBodySize
		}
		h.probes = cfg.Probes
	}
	return h
}

// GenerateRequest is the body of the generate endpoints.
type GenerateRequest struct {
	Messages []types.Message `json:"messages"`
	Provider string          `json:"provider,omitempty"`
	Model    string          `json:"model,omitempty"`
}

// SmartRequest is the body of the smart generate endpoint.
type SmartRequest struct {
	Messages []types.Message `json:"messages"`
	Language string          `json:"language,omitempty"`
	Category string          `json:"category,omitempty"`
}

// KeyTestRequest is the body of the key test endpoint.
type KeyTestRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// Generate handles POST /v1/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.svc.Generate(r.Context(), req.Messages, types.GenerateOptions{
		Provider: types.ProviderID(req.Provider),
		Model:    req.Model,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// GenerateWithFallback handles POST /v1/generate/fallback.
func (h *Handler) GenerateWithFallback(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.svc.GenerateWithFallback(r.Context(), req.Messages, types.GenerateOptions{
		Provider: types.ProviderID(req.Provider),
		Model:    req.Model,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// GenerateSmart handles POST /v1/generate/smart.
func (h *Handler) GenerateSmart(w http.ResponseWriter, r *http.Request) {
	var req SmartRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	opts := fallback.SmartOptions{Language: req.Language}
	if opts.Language == "" {
		opts.Language = selector.DefaultLanguage
	}
	if req.Category != "" {
		category, ok := selector.ParseCategory(req.Category)
		if !ok {
			h.writeError(w, r, llmerrors.NewInvalidRequestError("", "", "category must be short or long"))
			return
		}
		opts.Category = category
	}

	res, err := h.svc.GenerateSmart(r.Context(), req.Messages, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// LLMStatus handles GET /admin/llm-status.
func (h *Handler) LLMStatus(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Status())
}

// KeysHealth handles GET /admin/keys/health.
func (h *Handler) KeysHealth(w http.ResponseWriter, _ *http.Request) {
	health := h.svc.Health()
	if h.probes != nil {
		health.Probes = h.probes.Results()
	}
	h.writeJSON(w, http.StatusOK, health)
}

// TestKey handles POST /admin/keys/test. Provider call failures are
// reported in a 200 response with status "fail".
func (h *Handler) TestKey(w http.ResponseWriter, r *http.Request) {
	var req KeyTestRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Provider == "" {
		h.writeError(w, r, llmerrors.NewInvalidRequestError("", "", "provider required"))
		return
	}
	res, err := h.svc.TestProvider(r.Context(), types.ProviderID(req.Provider), req.Model)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a size-limited JSON body into v.
func (h *Handler) decode(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodySize+1))
	if err != nil {
		return llmerrors.NewInvalidRequestError("", "", "failed to read request body")
	}
	if int64(len(body)) > h.maxBodySize {
		return llmerrors.NewInvalidRequestError("", "", "request body too large")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return llmerrors.NewInvalidRequestError("", "", "invalid JSON: "+err.Error())
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
