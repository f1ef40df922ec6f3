package api //nolint:revive // package name is intentional

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aimichat/llmrouter/internal/observability"
)

// RegisterRoutes registers all routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/generate", instrument("/v1/generate", h.Generate))
	mux.HandleFunc("POST /v1/generate/fallback", instrument("/v1/generate/fallback", h.GenerateWithFallback))
	mux.HandleFunc("POST /v1/generate/smart", instrument("/v1/generate/smart", h.GenerateSmart))

	mux.HandleFunc("GET /admin/llm-status", instrument("/admin/llm-status", h.requireAdmin(h.LLMStatus)))
	mux.HandleFunc("GET /admin/keys/health", instrument("/admin/keys/health", h.requireAdmin(h.KeysHealth)))
	mux.HandleFunc("POST /admin/keys/test", instrument("/admin/keys/test", h.requireAdmin(h.TestKey)))

	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// NewRouter builds the full HTTP handler: routes, request IDs and, when
// limiter is non-nil, per-client rate limiting.
func NewRouter(h *Handler, limiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var handler http.Handler = mux
	if limiter != nil {
		handler = limiter.Middleware(h, handler)
	}
	return observability.RequestIDMiddleware(handler)
}

// RouteInfo describes an API route.
type RouteInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Admin       bool   `json:"admin"`
}

// Routes lists the registered routes.
func Routes() []RouteInfo {
	return []RouteInfo{
		{Method: "POST", Path: "/v1/generate", Description: "Generate a reply with provider routing"},
		{Method: "POST", Path: "/v1/generate/fallback", Description: "Generate a reply through a fallback chain"},
		{Method: "POST", Path: "/v1/generate/smart", Description: "Generate a reply with length-based model selection"},
		{Method: "GET", Path: "/admin/llm-status", Description: "Provider configuration report", Admin: true},
		{Method: "GET", Path: "/admin/keys/health", Description: "Provider key availability", Admin: true},
		{Method: "POST", Path: "/admin/keys/test", Description: "Send a test prompt to one provider", Admin: true},
		{Method: "GET", Path: "/health", Description: "Liveness probe"},
		{Method: "GET", Path: "/metrics", Description: "Prometheus metrics"},
	}
}
