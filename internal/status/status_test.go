package status

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/types"
)

func TestBuildNoProviders(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	r := Build(config.DefaultConfig(), now)

	require.Equal(t, StateNoProviders, r.Summary.Status)
	require.Equal(t, len(types.KnownProviders()), r.Summary.Total)
	require.Zero(t, r.Summary.Configured)
	require.Equal(t, r.Summary.Total, r.Summary.Missing)
	require.Equal(t, "not set", r.Config.DefaultProvider)
	require.Equal(t, "not set", r.Config.FallbackProviders)
	require.Equal(t, time.UTC, r.Timestamp.Location())
	require.Equal(t, "GEMINI_API_KEY or GOOGLE_GENERATIVE_AI_API_KEY", r.Providers[types.Gemini].KeyName)
}

func TestBuildOperational(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers[types.Silicon] = config.ProviderSettings{APIKey: "sk-a, sk-b"}
	cfg.Providers[types.Moonshot] = config.ProviderSettings{APIKey: "sk-m"}
	cfg.Routing.DefaultProvider = "moonshot"
	cfg.Routing.FallbackEnabled = true
	cfg.Routing.FallbackProviders = []string{"silicon", "gemini"}

	r := Build(cfg, time.Now())
	require.Equal(t, StateOperational, r.Summary.Status)
	require.Equal(t, 2, r.Summary.Configured)
	require.Equal(t, 2, r.Providers[types.Silicon].KeyCount)
	require.False(t, r.Providers[types.Gemini].Configured)
	require.Equal(t, "moonshot", r.Config.EffectiveDefault)
	require.Equal(t, "silicon,gemini", r.Config.FallbackProviders)
	require.True(t, r.Config.FallbackEnabled)
	require.Equal(t, 3, r.Config.MaxAttempts)
}

func TestBuildHealth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers[types.DeepSeek] = config.ProviderSettings{APIKey: "k"}

	h := BuildHealth(cfg)
	require.True(t, h.Providers[types.DeepSeek].Available)
	require.False(t, h.Providers[types.Silicon].Available)
	require.Equal(t, "deepseek", h.Config.DefaultProvider)
	require.False(t, h.Config.FallbackEnabled)
}

func TestClassifyTestError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.NewAuthenticationError("silicon", "", "unauthorized"), CodeAuth},
		{errors.NewAuthenticationError("gemini", "", "API key not valid"), CodeAPIKeyInvalid},
		{errors.NewMissingKeyError("zhipu", "ZHIPU_API_KEY"), CodeAPIKeyInvalid},
		{errors.NewTimeoutError("moonshot", "", "request exceeded deadline"), CodeTimeout},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), CodeUnknown},
		{fmt.Errorf("Timeout"), CodeTimeout},
		{errors.NewRateLimitError("silicon", "", "api key quota"), CodeRateLimit},
		{errors.NewServiceUnavailableError("openrouter", "", "down"), CodeOverloaded},
		{fmt.Errorf("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.Equal(t, tt.want, ClassifyTestError(tt.err))
		})
	}
}

func TestNewKeyTestResult(t *testing.T) {
	ok := NewKeyTestResult(types.Gemini, "", strings.Repeat("é", 80), nil, 1500*time.Millisecond)
	require.Equal(t, TestOK, ok.Status)
	require.Equal(t, "default", ok.Model)
	require.Equal(t, int64(1500), ok.LatencyMs)
	require.Equal(t, 50, len([]rune(ok.Reply)))

	fail := NewKeyTestResult(types.Silicon, "Qwen/Qwen2.5-7B-Instruct", "", errors.NewRateLimitError("silicon", "", strings.Repeat("x", 200)), time.Second)
	require.Equal(t, TestFail, fail.Status)
	require.Equal(t, CodeRateLimit, fail.ErrorCode)
	require.Equal(t, 429, fail.HTTPStatus)
	require.Len(t, fail.ErrorMessage, 100)
	require.Empty(t, fail.Reply)
}
