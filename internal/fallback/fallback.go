package fallback

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/metrics"
	"github.com/aimichat/llmrouter/internal/observability"
	"github.com/aimichat/llmrouter/internal/router"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
)

// MaxAttempts caps how many chain entries one request may try.
const MaxAttempts = 3

// Caller performs a single provider call. *router.Router implements it.
type Caller interface {
	Call(ctx context.Context, id types.ProviderID, req *provider.Request, opts router.CallOptions) (reply, model string, err error)
}

// Generator walks fallback chains. Unlike the router it advances on every
// failure, including timeouts and non-retriable errors.
type Generator struct {
	source config.Source
	caller Caller
	logger *observability.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewGenerator creates a generator.
func NewGenerator(source config.Source, caller Caller, logger *observability.Logger) *Generator {
	if logger == nil {
		logger = observability.Discard()
	}
	return &Generator{source: source, caller: caller, logger: logger, sleep: sleepCtx}
}

// GenerateWithFallback tries opts.Provider/opts.Model first when a model is
// given and the provider is a recognized one, then the chain for
// opts.Provider (or the default chain), skipping the entry identical to the
// primary. Unknown, empty and "default" providers take the default chain.
// At most MaxAttempts entries are tried.
func (g *Generator) GenerateWithFallback(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.FallbackResult, error) {
	cfg := g.source.Get()
	if cfg == nil {
		return nil, errors.NewNoProviders()
	}
	logger := g.logger.WithRequestID(ctx)

	chains := Chains(cfg)
	for _, group := range EmptyGroups(chains) {
		logger.Warn("no providers available for fallback chain, check API keys", "chain", group)
	}

	primary, explicit := NormalizeProvider(string(opts.Provider)), false
	if id, ok := types.ParseProviderID(string(primary)); ok && id != types.Default {
		primary, explicit = id, true
	} else if opts.Provider != "" && id != types.Default {
		logger.Warn("unknown provider requested, using default chain", "provider", opts.Provider)
	}

	var chain []Candidate
	if explicit && opts.Model != "" {
		chain = append(chain, Candidate{
			Provider:    primary,
			Model:       opts.Model,
			DisplayName: string(primary) + "/" + opts.Model,
		})
	}
	for _, c := range ChainFor(chains, string(opts.Provider)) {
		if c.Provider == primary && c.Model == opts.Model {
			continue
		}
		chain = append(chain, c)
	}

	if len(chain) == 0 {
		logger.Error("no fallback candidates available, no provider has an API key",
			"provider", opts.Provider)
		metrics.RecordExhausted("fallback", errors.CodeNoProviders)
		return nil, errors.NewNoProviders()
	}

	return g.run(ctx, "fallback", chain, messages, 0, nil)
}

// run tries up to MaxAttempts entries of chain in order.
func (g *Generator) run(ctx context.Context, strategy string, chain []Candidate, messages []types.Message, maxTokens int, temperature *float64) (*types.FallbackResult, error) {
	cfg := g.source.Get()
	logger := g.logger.WithRequestID(ctx)

	if len(chain) > MaxAttempts {
		chain = chain[:MaxAttempts]
	}

	ctx, span := observability.StartRouteSpan(ctx, "llm."+strategy,
		attribute.Int("llm.candidates", len(chain)),
	)
	defer span.End()

	attempts := make([]errors.Attempt, 0, len(chain))
	for i, c := range chain {
		if i > 0 && chain[i-1].Provider == c.Provider && cfg.Routing.SameVendorDelay > 0 {
			if err := g.sleep(ctx, cfg.Routing.SameVendorDelay); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("fallback attempt", "strategy", strategy, "attempt", i+1, "max_attempts", len(chain), "candidate", c.DisplayName)

		req := &provider.Request{
			Messages:    messages,
			Model:       c.Model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		}
		reply, model, err := g.caller.Call(ctx, c.Provider, req, router.CallOptions{
			Timeout: cfg.Routing.FallbackAttemptTimeout,
			Attempt: i + 1,
		})
		if err == nil {
			if i > 0 {
				metrics.RecordFallback(strategy, string(c.Provider))
			}
			logger.Info("fallback attempt succeeded", "strategy", strategy, "candidate", c.DisplayName, "reply_chars", len(reply))
			return &types.FallbackResult{
				GenerationResult: types.GenerationResult{Reply: reply, ProviderUsed: c.Provider, ModelUsed: model},
				AttemptCount:     i + 1,
				FallbackUsed:     i > 0,
			}, nil
		}

		attempts = append(attempts, errors.Attempt{Provider: string(c.Provider), Model: c.Model, Err: err})
		if ctx.Err() != nil {
			observability.RecordError(span, err)
			return nil, err
		}
	}

	routingErr := errors.NewAllProvidersFailed(attempts)
	metrics.RecordExhausted(strategy, routingErr.Code)
	logger.RedactedError("fallback chain exhausted", "strategy", strategy, "providers_tried", routingErr.ProvidersTried())
	observability.RecordError(span, routingErr)
	return nil, routingErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
