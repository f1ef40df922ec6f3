package fallback

import (
	"context"
	stderrors "errors"

	"github.com/aimichat/llmrouter/internal/selector"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/types"
)

// SmartOptions tune GenerateSmart.
type SmartOptions struct {
	// Language selects the narrative instruction text; default Vietnamese.
	Language string
	// Category overrides the category detected from the latest user message.
	Category selector.Category
}

// GenerateSmart picks the model list for the latest user message's length
// category, appends the category's narrative instruction to the system
// prompt and tries the keyed models in priority order with the recommended
// max tokens and temperature.
func (g *Generator) GenerateSmart(ctx context.Context, messages []types.Message, opts SmartOptions) (*types.SmartResult, error) {
	cfg := g.source.Get()
	if cfg == nil {
		return nil, errors.NewNoProviders()
	}
	logger := g.logger.WithRequestID(ctx)

	sel := selector.Select(types.LastUserContent(messages), opts.Category)
	maxTokens := selector.MaxTokens(sel.Category)
	temperature := selector.Temperature(sel.Category)

	chain := make([]Candidate, 0, len(sel.Models))
	for _, m := range sel.Models {
		if cfg.HasKey(m.Provider) {
			chain = append(chain, Candidate{Provider: m.Provider, Model: m.Model, DisplayName: m.DisplayName})
		}
	}

	logger.Info("smart model selection",
		"category", sel.Category,
		"words", sel.WordCount,
		"max_tokens", maxTokens,
		"available_models", len(chain),
	)

	if len(chain) == 0 {
		logger.Error("no smart fallback models have API keys", "category", sel.Category)
		err := errors.NewNoProviders()
		err.Category = string(sel.Category)
		return nil, err
	}

	enhanced := WithNarrativeInstruction(messages, selector.NarrativeInstruction(sel.Category, opts.Language))

	res, err := g.run(ctx, "smart", chain, enhanced, maxTokens, &temperature)
	if err != nil {
		var routingErr *errors.RoutingError
		if stderrors.As(err, &routingErr) {
			routingErr.Category = string(sel.Category)
		}
		return nil, err
	}
	return &types.SmartResult{
		FallbackResult: *res,
		Category:       string(sel.Category),
		WordCount:      sel.WordCount,
		MaxTokens:      maxTokens,
		Temperature:    temperature,
	}, nil
}

// WithNarrativeInstruction returns a copy of messages with instruction
// appended to a leading system message, or prepended as a new one.
func WithNarrativeInstruction(messages []types.Message, instruction string) []types.Message {
	if len(messages) > 0 && messages[0].Role == types.RoleSystem {
		out := types.CloneMessages(messages)
		out[0].Content = out[0].Content + "\n\n" + instruction
		return out
	}
	out := make([]types.Message, 0, len(messages)+1)
	out = append(out, types.System(instruction))
	return append(out, messages...)
}
