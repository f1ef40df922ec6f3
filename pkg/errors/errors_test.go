package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLLMError(t *testing.T) {
	t.Run("error message format", func(t *testing.T) {
		err := NewRateLimitError("silicon", "Qwen/Qwen2.5-7B-Instruct", "rate limit exceeded")
		msg := err.Error()
		for _, s := range []string{"rate_limit_error", "silicon", "Qwen/Qwen2.5-7B-Instruct", "429"} {
			if !strings.Contains(msg, s) {
				t.Errorf("error message should contain %q, got %q", s, msg)
			}
		}
	})

	t.Run("HTTP status codes", func(t *testing.T) {
		tests := []struct {
			name     string
			err      *LLMError
			wantCode int
		}{
			{"auth error", NewAuthenticationError("p", "m", "msg"), 401},
			{"rate limit", NewRateLimitError("p", "m", "msg"), 429},
			{"bad request", NewInvalidRequestError("p", "m", "msg"), 400},
			{"not found", NewNotFoundError("p", "m", "msg"), 404},
			{"timeout", NewTimeoutError("p", "m", "msg"), 408},
			{"unavailable", NewServiceUnavailableError("p", "m", "msg"), 503},
			{"internal", NewInternalError("p", "m", "msg"), 500},
			{"network", NewNetworkError("p", "m", fmt.Errorf("dial tcp")), 500},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.err.HTTPStatusCode(); got != tt.wantCode {
					t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.wantCode)
				}
			})
		}
	})
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		wantType string
	}{
		{http.StatusUnauthorized, TypeAuthentication},
		{http.StatusForbidden, TypeAuthentication},
		{http.StatusTooManyRequests, TypeRateLimit},
		{http.StatusBadRequest, TypeInvalidRequest},
		{http.StatusNotFound, TypeNotFound},
		{http.StatusGatewayTimeout, TypeTimeout},
		{http.StatusServiceUnavailable, TypeServiceUnavailable},
		{http.StatusBadGateway, TypeInternalError},
	}
	for _, tt := range tests {
		err := FromStatus(tt.status, "gemini", "gemini-2.5-flash", "boom")
		require.Equal(t, tt.wantType, err.Type, "status %d", tt.status)
		require.Equal(t, tt.status, err.StatusCode)
	}
}

type statusOnly struct{ code int }

func (s statusOnly) Error() string   { return "upstream said no" }
func (s statusOnly) StatusCode() int { return s.code }

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status 429", NewRateLimitError("p", "m", "slow down"), true},
		{"status 503", NewServiceUnavailableError("p", "m", "busy"), true},
		{"status 400", NewInvalidRequestError("p", "m", "bad body"), false},
		{"status 401", NewAuthenticationError("p", "m", "bad key"), false},
		{"status 404 invalid model", NewNotFoundError("p", "m", "model does not exist"), false},
		{"foreign status coder 429", statusOnly{429}, true},
		{"foreign status coder 400", statusOnly{400}, false},
		{"wrapped 429", fmt.Errorf("call: %w", NewRateLimitError("p", "m", "x")), true},
		{"quota keyword", stderrors.New("You exceeded your current QUOTA"), true},
		{"rate limit keyword", stderrors.New("Rate limit reached for requests"), true},
		{"overload keyword", stderrors.New("model is overloaded"), true},
		{"unavailable keyword", stderrors.New("upstream Unavailable"), true},
		{"network keyword", NewNetworkError("p", "m", stderrors.New("connection reset by peer")), true},
		{"fetch failed keyword", stderrors.New("TypeError: fetch failed"), true},
		{"503 literal", stderrors.New("SiliconFlow API error: 503 - {}"), true},
		{"429 literal", stderrors.New("Gemini API error: 429 Too Many Requests"), true},
		{"plain failure", stderrors.New("invalid model name"), false},
		{"empty response", NewEmptyResponseError("p", "m", "empty content"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsRetriable(tt.err))
		})
	}
}

func TestRoutingError(t *testing.T) {
	first := NewRateLimitError("silicon", "deepseek-ai/DeepSeek-V3", "quota")
	second := NewServiceUnavailableError("gemini", "gemini-2.5-flash", "overloaded")
	err := NewAllProvidersFailed([]Attempt{
		{Provider: "silicon", Model: "deepseek-ai/DeepSeek-V3", Err: first},
		{Provider: "gemini", Model: "gemini-2.5-flash", Err: second},
	})

	require.Equal(t, CodeAllProvidersFailed, err.Code)
	require.Equal(t, []string{"silicon/deepseek-ai/DeepSeek-V3", "gemini/gemini-2.5-flash"}, err.ProvidersTried())
	require.Same(t, second, err.LastError())
	require.ErrorIs(t, err, first)
	require.Equal(t, CodeAllProvidersFailed, Code(fmt.Errorf("wrapped: %w", err)))

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
}

func TestNoProvidersError(t *testing.T) {
	err := NewNoProviders()
	require.Equal(t, CodeNoProviders, Code(err))
	require.Contains(t, err.Error(), "no AI providers configured")
	require.Empty(t, err.Unwrap())
	require.Nil(t, err.LastError())
}
