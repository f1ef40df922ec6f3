// Package llmrouter routes chat generation requests across several LLM
// vendors for the companion chat app, falling back to other providers and
// models when one is rate limited, overloaded or unreachable.
//
// Basic usage:
//
//	client, err := llmrouter.New(llmrouter.WithConfig(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	res, err := client.Generate(ctx, []llmrouter.Message{
//	    types.System("You are Almi."),
//	    types.User("Xin chào!"),
//	}, llmrouter.GenerateOptions{Provider: types.Gemini})
package llmrouter

import (
	"github.com/aimichat/llmrouter/internal/fallback"
	"github.com/aimichat/llmrouter/internal/status"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
)

// Version is the current version of llmrouter.
const Version = "1.0.0"

// Re-export request and result types.
type (
	Message          = types.Message
	ProviderID       = types.ProviderID
	GenerateOptions  = types.GenerateOptions
	GenerationResult = types.GenerationResult
	FallbackResult   = types.FallbackResult
	SmartResult      = types.SmartResult
	SmartOptions     = fallback.SmartOptions
)

// Re-export provider and error types.
type (
	// ProviderClient is a single vendor's chat client.
	ProviderClient = provider.Client
	// LLMError is a classified provider failure.
	LLMError = errors.LLMError
	// RoutingError is returned when no candidate could serve a request.
	RoutingError = errors.RoutingError
)

// Re-export report types.
type (
	StatusReport  = status.Report
	HealthReport  = status.Health
	KeyTestResult = status.KeyTestResult
)
