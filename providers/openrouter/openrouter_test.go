package openrouter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
)

func TestAttributionHeaders(t *testing.T) {
	p := New(provider.Config{APIKey: "sk-or-v1-test"}, "https://almi.example", "Almi Chat")
	req, err := p.BuildRequest(context.Background(), &provider.Request{Messages: []types.Message{types.User("hi")}})
	require.NoError(t, err)

	require.Equal(t, "https://almi.example", req.Header.Get("HTTP-Referer"))
	require.Equal(t, "Almi Chat", req.Header.Get("X-Title"))
	require.Equal(t, "https://openrouter.ai/api/v1/chat/completions", req.URL.String())
	require.Equal(t, DefaultModel, p.DefaultModel())
}
