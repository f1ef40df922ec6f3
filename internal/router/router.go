package router

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/metrics"
	"github.com/aimichat/llmrouter/internal/observability"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
)

// Clients resolves provider identifiers to clients. *provider.Registry
// implements it.
type Clients interface {
	Lookup(id types.ProviderID) (provider.Client, bool)
}

// Router walks the candidate list for each request. It holds no per-request
// state; configuration is read from the source on every call.
type Router struct {
	source  config.Source
	clients func() Clients
	logger  *observability.Logger
}

// New creates a router. clients is called once per request so that a
// hot-reloaded registry is picked up.
func New(source config.Source, clients func() Clients, logger *observability.Logger) *Router {
	if logger == nil {
		logger = observability.Discard()
	}
	return &Router{source: source, clients: clients, logger: logger}
}

// Generate sends messages to the best available provider.
//
// The first candidate that succeeds wins. A failure ends the request
// immediately when fallback is disabled or the error is not retriable, and
// that error is returned unchanged. When every tried candidate fails with a
// retriable error an errors.RoutingError with code LLM_ALL_PROVIDERS_FAILED
// is returned. At most MaxAttempts candidates are tried.
func (r *Router) Generate(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.GenerationResult, error) {
	cfg := r.source.Get()
	logger := r.logger.WithRequestID(ctx)

	if opts.Provider != "" {
		if _, ok := types.ParseProviderID(string(opts.Provider)); !ok {
			logger.Warn("unknown provider requested, using default", "provider", opts.Provider)
		}
	}

	candidates := BuildCandidates(cfg, opts.Provider)
	if len(candidates) == 0 {
		metrics.RecordExhausted("router", errors.CodeNoProviders)
		return nil, errors.NewNoProviders()
	}
	if len(candidates) > MaxAttempts {
		candidates = candidates[:MaxAttempts]
	}

	ctx, span := observability.StartRouteSpan(ctx, "llm.route",
		attribute.String("llm.preferred_provider", string(opts.Provider)),
		attribute.Int("llm.candidates", len(candidates)),
	)
	defer span.End()

	logger.Debug("routing request",
		"preferred", opts.Provider,
		"candidates", candidates,
		"fallback_enabled", cfg.Routing.FallbackEnabled,
	)

	attempts := make([]errors.Attempt, 0, len(candidates))
	for i, id := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := &provider.Request{Messages: messages, Model: opts.Model}
		reply, model, err := r.Call(ctx, id, req, CallOptions{
			Timeout: cfg.Routing.AttemptTimeout,
			Attempt: i + 1,
		})
		if err == nil {
			if i > 0 {
				metrics.RecordFallback("router", string(id))
			}
			logger.Info("llm request served", "provider", id, "model", model, "attempt", i+1)
			return &types.GenerationResult{Reply: reply, ProviderUsed: id, ModelUsed: model}, nil
		}

		attempts = append(attempts, errors.Attempt{Provider: string(id), Model: model, Err: err})

		if ctx.Err() != nil {
			observability.RecordError(span, err)
			return nil, err
		}
		if !cfg.Routing.FallbackEnabled {
			logger.Debug("fallback disabled, returning provider error", "provider", id)
			observability.RecordError(span, err)
			return nil, err
		}
		if !errors.IsRetriable(err) {
			logger.Debug("provider error is not retriable", "provider", id)
			observability.RecordError(span, err)
			return nil, err
		}
	}

	routingErr := errors.NewAllProvidersFailed(attempts)
	metrics.RecordExhausted("router", routingErr.Code)
	logger.RedactedError("all llm providers failed", "providers_tried", routingErr.ProvidersTried())
	observability.RecordError(span, routingErr)
	return nil, routingErr
}

// CallOptions tune a single provider call.
type CallOptions struct {
	// Timeout bounds the call when > 0.
	Timeout time.Duration
	// Attempt is the 1-based position in the caller's chain, for logs and spans.
	Attempt int
}

// Call performs exactly one provider call and reports the model used. It is
// the primitive shared by the router, the fallback generators and key tests.
func (r *Router) Call(ctx context.Context, id types.ProviderID, req *provider.Request, opts CallOptions) (reply, model string, err error) {
	client, ok := r.clients().Lookup(id)
	if !ok {
		return "", req.Model, errors.NewInternalError(string(id), req.Model, "provider is not registered")
	}
	model = provider.ResolveModel(req, client.DefaultModel())

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	ctx, span := observability.StartAttemptSpan(ctx, observability.AttemptSpanAttributes{
		Provider:    string(id),
		Model:       model,
		Attempt:     opts.Attempt,
		MaxTokens:   req.MaxTokens,
		Temperature: deref(req.Temperature),
	})
	defer span.End()

	start := time.Now()
	reply, err = client.Generate(ctx, req)
	latency := time.Since(start)

	if err != nil {
		retriable := errors.IsRetriable(err)
		metrics.RecordAttempt(string(id), model, outcome(err, retriable), latency)
		observability.RecordError(span, err)
		r.logger.AttemptFailed(ctx, string(id), model, opts.Attempt, err, retriable)
		return "", model, err
	}

	metrics.RecordAttempt(string(id), model, metrics.OutcomeSuccess, latency)
	return reply, model, nil
}

func outcome(err error, retriable bool) string {
	switch {
	case stderrors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled
	case retriable:
		return metrics.OutcomeRetriable
	default:
		return metrics.OutcomeNonRetriable
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
