package providers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/deepseek"
)

func chatServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		var req types.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExecutorGenerate(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`)
	exec := NewExecutor(deepseek.New(provider.Config{APIKey: "k", BaseURL: srv.URL + "/v1"}), srv.Client(), time.Second)

	reply, err := exec.Generate(context.Background(), &provider.Request{Messages: []types.Message{types.User("hi")}})
	require.NoError(t, err)
	require.Equal(t, "hello there", reply)
	require.Equal(t, types.DeepSeek, exec.Name())
	require.Equal(t, deepseek.DefaultModel, exec.DefaultModel())
}

func TestExecutorMapsErrorStatus(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, `{"error":{"message":"quota exceeded"}}`)
	exec := NewExecutor(deepseek.New(provider.Config{APIKey: "k", BaseURL: srv.URL + "/v1"}), srv.Client(), 0)

	_, err := exec.Generate(context.Background(), &provider.Request{Model: "deepseek-reasoner"})
	var llmErr *errors.LLMError
	require.True(t, stderrors.As(err, &llmErr))
	require.Equal(t, http.StatusTooManyRequests, llmErr.StatusCode)
	require.Equal(t, "deepseek-reasoner", llmErr.Model)
	require.True(t, errors.IsRetriable(err))
}

func TestExecutorNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	exec := NewExecutor(deepseek.New(provider.Config{APIKey: "k", BaseURL: base}), nil, 0)
	_, err := exec.Generate(context.Background(), &provider.Request{})

	var llmErr *errors.LLMError
	require.True(t, stderrors.As(err, &llmErr))
	require.Equal(t, errors.TypeNetwork, llmErr.Type)
	require.True(t, errors.IsRetriable(err))
}

func TestExecutorTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	exec := NewExecutor(deepseek.New(provider.Config{APIKey: "k", BaseURL: srv.URL}), srv.Client(), 50*time.Millisecond)
	_, err := exec.Generate(context.Background(), &provider.Request{})

	var llmErr *errors.LLMError
	require.True(t, stderrors.As(err, &llmErr))
	require.Equal(t, errors.TypeTimeout, llmErr.Type)
}

func TestExecutorCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	exec := NewExecutor(deepseek.New(provider.Config{APIKey: "k", BaseURL: srv.URL}), srv.Client(), 0)
	_, err := exec.Generate(ctx, &provider.Request{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRegistry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers[types.Gemini] = config.ProviderSettings{APIKey: "g"}

	reg, err := NewRegistry(cfg, nil, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, types.KnownProviders(), reg.IDs())

	c, ok := reg.Lookup(types.Silicon)
	require.True(t, ok)
	_, err = c.Generate(context.Background(), &provider.Request{Messages: []types.Message{types.User("hi")}})
	require.ErrorContains(t, err, "SILICON_API_KEY", "unkeyed providers fail with a missing key error")
}

func TestNewRegistryValidatesBaseURL(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers[types.DeepSeek] = config.ProviderSettings{APIKey: "k", BaseURL: "http://127.0.0.1:9999/v1"}

	_, err := NewRegistry(cfg, nil, nil)
	require.ErrorContains(t, err, "deepseek")

	cfg.Environment = config.EnvDevelopment
	_, err = NewRegistry(cfg, nil, nil)
	require.NoError(t, err)

	cfg.Environment = config.EnvProduction
	cfg.Providers[types.DeepSeek] = config.ProviderSettings{APIKey: "k"}
	cfg.Providers[types.OpenAI] = config.ProviderSettings{APIKey: "k", BaseURL: "http://localhost:11434/v1"}
	_, err = NewRegistry(cfg, nil, nil)
	require.NoError(t, err)
}

func TestExecutorNetworkErrorOmitsURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	exec := NewExecutor(deepseek.New(provider.Config{APIKey: "k", BaseURL: base + "/v1?token=secret"}), nil, 0)
	_, err := exec.Generate(context.Background(), &provider.Request{})

	require.Error(t, err)
	require.Contains(t, err.Error(), "network error")
	require.NotContains(t, err.Error(), base)
	require.NotContains(t, err.Error(), "secret")
}
