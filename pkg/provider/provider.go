// Package provider defines the contract between the router and the vendor
// integrations. A Client produces a reply for a message list; an Adapter is
// the HTTP-level half that most vendors implement and that the providers
// package turns into a Client.
package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/aimichat/llmrouter/pkg/types"
)

// Request is one generation call against a single provider.
type Request struct {
	Messages []types.Message
	// Model overrides the client's default model when non-empty.
	Model       string
	MaxTokens   int
	Temperature *float64
}

// Client generates a reply from one provider.
type Client interface {
	// Name returns the provider identifier.
	Name() types.ProviderID

	// DefaultModel is used when a request leaves Model empty.
	DefaultModel() string

	// Generate returns the assistant reply text. Failures are *errors.LLMError
	// values whenever the provider answered or the transport failed.
	Generate(ctx context.Context, req *Request) (string, error)
}

// Adapter converts between Request and a vendor's HTTP API.
type Adapter interface {
	Name() types.ProviderID
	DefaultModel() string

	// BuildRequest creates the vendor HTTP request.
	BuildRequest(ctx context.Context, req *Request) (*http.Request, error)

	// ParseResponse extracts the reply text from a successful response.
	ParseResponse(resp *http.Response, model string) (string, error)

	// MapError converts a vendor error response into an *errors.LLMError.
	MapError(statusCode int, body []byte, model string) error
}

// Config contains provider-specific configuration.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Headers      map[string]string
	Timeout      time.Duration
}

// Factory creates an adapter from configuration.
type Factory func(cfg Config) (Adapter, error)

// ResolveModel returns req.Model or the fallback when it is empty.
func ResolveModel(req *Request, fallback string) string {
	if req != nil && req.Model != "" {
		return req.Model
	}
	return fallback
}
