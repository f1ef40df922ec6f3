package llmrouter_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aimichat/llmrouter"
	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/status"
	"github.com/aimichat/llmrouter/pkg/errors"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
)

type stubClient struct {
	id    types.ProviderID
	err   error
	reply string
	reqs  []*provider.Request
}

func (s *stubClient) Name() types.ProviderID { return s.id }
func (s *stubClient) DefaultModel() string   { return string(s.id) + "-default" }

func (s *stubClient) Generate(_ context.Context, req *provider.Request) (string, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return "", s.err
	}
	if s.reply != "" {
		return s.reply, nil
	}
	return "hi from " + string(s.id), nil
}

func testConfig(keyed ...types.ProviderID) *config.Config {
	cfg := config.DefaultConfig()
	for _, id := range keyed {
		cfg.Providers[id] = config.ProviderSettings{APIKey: "test-" + string(id)}
	}
	return cfg
}

var chat = []llmrouter.Message{types.System("persona"), types.User("xin chào")}

func TestNewRequiresConfig(t *testing.T) {
	_, err := llmrouter.New()
	require.Error(t, err)
}

func TestGenerateUsesDefaultModel(t *testing.T) {
	cfg := testConfig(types.Silicon)
	cfg.Routing.DefaultModel = "Qwen/Qwen2.5-72B-Instruct"
	silicon := &stubClient{id: types.Silicon}

	c, err := llmrouter.New(llmrouter.WithConfig(cfg), llmrouter.WithProviderClient(silicon))
	require.NoError(t, err)
	defer c.Close()

	res, err := c.Generate(context.Background(), chat, llmrouter.GenerateOptions{})
	require.NoError(t, err)
	require.Equal(t, types.Silicon, res.ProviderUsed)
	require.Equal(t, "Qwen/Qwen2.5-72B-Instruct", res.ModelUsed)

	res, err = c.Generate(context.Background(), chat, llmrouter.GenerateOptions{Provider: types.Silicon})
	require.NoError(t, err)
	require.Equal(t, "silicon-default", res.ModelUsed, "explicit provider keeps its own default")
}

func TestGenerateValidatesMessages(t *testing.T) {
	c, err := llmrouter.New(llmrouter.WithConfig(testConfig(types.Gemini)))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), nil, llmrouter.GenerateOptions{})
	require.Error(t, err)

	_, err = c.Generate(context.Background(), []llmrouter.Message{{Role: "tool", Content: "x"}}, llmrouter.GenerateOptions{})
	var llmErr *errors.LLMError
	require.True(t, stderrors.As(err, &llmErr))
	require.Equal(t, errors.TypeInvalidRequest, llmErr.Type)
}

func TestGenerateUnkeyedProviderFailsWithMissingKey(t *testing.T) {
	c, err := llmrouter.New(llmrouter.WithConfig(testConfig()))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), chat, llmrouter.GenerateOptions{Provider: types.Zhipu})
	var llmErr *errors.LLMError
	require.True(t, stderrors.As(err, &llmErr))
	require.Equal(t, errors.TypeConfiguration, llmErr.Type)
	require.Contains(t, llmErr.Message, "ZHIPU_API_KEY")
}

func TestGenerateWithFallbackThroughClient(t *testing.T) {
	gemini := &stubClient{id: types.Gemini, err: errors.NewRateLimitError("gemini", "", "quota")}
	silicon := &stubClient{id: types.Silicon}

	c, err := llmrouter.New(
		llmrouter.WithConfig(testConfig(types.Gemini, types.Silicon)),
		llmrouter.WithProviderClient(gemini),
		llmrouter.WithProviderClient(silicon),
	)
	require.NoError(t, err)

	res, err := c.GenerateWithFallback(context.Background(), chat, llmrouter.GenerateOptions{Provider: types.Gemini})
	require.NoError(t, err)
	require.True(t, res.FallbackUsed)
	require.Equal(t, types.Silicon, res.ProviderUsed)
	require.Equal(t, "Qwen/Qwen2.5-14B-Instruct", res.ModelUsed)
}

func TestGenerateSmartThroughClient(t *testing.T) {
	silicon := &stubClient{id: types.Silicon}
	c, err := llmrouter.New(llmrouter.WithConfig(testConfig(types.Silicon)), llmrouter.WithProviderClient(silicon))
	require.NoError(t, err)

	res, err := c.GenerateSmart(context.Background(), chat, llmrouter.SmartOptions{Language: "vi"})
	require.NoError(t, err)
	require.Equal(t, "short", res.Category)
	require.Equal(t, 800, silicon.reqs[0].MaxTokens)
}

func TestTestProvider(t *testing.T) {
	silicon := &stubClient{id: types.Silicon, reply: "pong"}
	gemini := &stubClient{id: types.Gemini, err: errors.NewAuthenticationError("gemini", "", "API key not valid")}
	c, err := llmrouter.New(
		llmrouter.WithConfig(testConfig(types.Silicon)),
		llmrouter.WithProviderClient(silicon),
		llmrouter.WithProviderClient(gemini),
	)
	require.NoError(t, err)

	res, err := c.TestProvider(context.Background(), types.Silicon, "")
	require.NoError(t, err)
	require.Equal(t, status.TestOK, res.Status)
	require.Equal(t, "pong", res.Reply)
	require.Equal(t, "default", res.Model)
	require.Equal(t, status.KeyTestPrompt, silicon.reqs[0].Messages[0].Content)

	res, err = c.TestProvider(context.Background(), types.Gemini, "gemini-2.5-flash")
	require.NoError(t, err)
	require.Equal(t, status.TestFail, res.Status)
	require.Equal(t, status.CodeAPIKeyInvalid, res.ErrorCode)

	_, err = c.TestProvider(context.Background(), "claude", "")
	require.Error(t, err)
}

func TestStatusAndHealth(t *testing.T) {
	c, err := llmrouter.New(llmrouter.WithConfig(testConfig(types.Moonshot)))
	require.NoError(t, err)

	require.Equal(t, status.StateOperational, c.Status().Summary.Status)
	require.True(t, c.Health().Providers[types.Moonshot].Available)
	require.ElementsMatch(t, types.KnownProviders(), c.Providers())
}

func TestClientPicksUpReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llmrouter.yaml")
	write := func(body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	write("routing:\n  default_provider: silicon\nproviders:\n  silicon:\n    api_key: sk-one\n")

	lookup := func(string) (string, bool) { return "", false }
	mgr, err := config.NewManager(context.Background(), path, nil, config.WithLookup(lookup))
	require.NoError(t, err)
	defer mgr.Close()

	c, err := llmrouter.New(llmrouter.WithSource(mgr))
	require.NoError(t, err)
	require.Equal(t, "silicon", c.Health().Config.DefaultProvider)

	write("routing:\n  default_provider: deepseek\nproviders:\n  deepseek:\n    api_key: sk-two\n")
	mgr.Reload(context.Background())

	require.Eventually(t, func() bool {
		return c.Health().Config.DefaultProvider == "deepseek"
	}, time.Second, 10*time.Millisecond)
}
