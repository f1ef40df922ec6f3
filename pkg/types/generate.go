package types //nolint:revive // package name is intentional

// GenerateOptions selects the preferred provider and model for a generate call.
// A zero value means "let the router decide".
type GenerateOptions struct {
	Provider ProviderID `json:"provider,omitempty"`
	Model    string     `json:"model,omitempty"`
}

// GenerationResult is the success payload of a routed generate call.
// ModelUsed is the model actually invoked. Reply may be empty: deciding whether
// an empty reply counts as a failure is left to the caller.
type GenerationResult struct {
	Reply        string     `json:"reply"`
	ProviderUsed ProviderID `json:"provider_used"`
	ModelUsed    string     `json:"model_used"`
}

// FallbackResult adds chain bookkeeping to a GenerationResult.
type FallbackResult struct {
	GenerationResult
	AttemptCount int  `json:"attempt_count"`
	FallbackUsed bool `json:"fallback_used"`
}

// SmartResult is returned by the message-length-adaptive generator.
type SmartResult struct {
	FallbackResult
	Category    string  `json:"category"`
	WordCount   int     `json:"word_count"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}
