package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/aimichat/llmrouter/internal/status"
	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers"
	"github.com/aimichat/llmrouter/providers/gemini"
)

func TestErrorResponseNeverCarriesGeminiKey(t *testing.T) {
	const key = "AIzaSECRETKEY123"

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := providers.NewExecutor(gemini.New(provider.Config{APIKey: key, BaseURL: base + "/v1beta"}), nil, time.Second)
	_, err := client.Generate(context.Background(), &provider.Request{Messages: []types.Message{types.User("ping")}})
	require.Error(t, err)
	require.NotContains(t, err.Error(), key)

	_, body := errorResponse(err)
	raw, err2 := json.Marshal(body)
	require.NoError(t, err2)
	require.NotContains(t, string(raw), key)

	res := status.NewKeyTestResult(types.Gemini, "", "", err, time.Millisecond)
	require.NotContains(t, res.ErrorMessage, key)
}
