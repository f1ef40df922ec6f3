package zhipu

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
)

func TestInjectLanguageRules(t *testing.T) {
	in := []types.Message{types.System("persona"), types.User("hello")}
	out := InjectLanguageRules(in)

	require.Len(t, out, 2)
	require.Equal(t, "persona\n"+LanguageRules, out[0].Content)
	require.Equal(t, "persona", in[0].Content, "caller slice must not change")

	out = InjectLanguageRules([]types.Message{types.User("hello")})
	require.Len(t, out, 2)
	require.Equal(t, types.RoleSystem, out[0].Role)
	require.Equal(t, LanguageRules, out[0].Content)
	require.Equal(t, "hello", out[1].Content)
}

func TestBuildRequestRawKey(t *testing.T) {
	p := New(provider.Config{APIKey: "plain-key"})
	req, err := p.BuildRequest(context.Background(), &provider.Request{
		Messages: []types.Message{types.User("chào")},
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer plain-key", req.Header.Get("Authorization"))
	require.True(t, strings.HasSuffix(req.URL.String(), "/api/paas/v4/chat/completions"))

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	var body types.ChatRequest
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, DefaultModel, body.Model)
	require.Len(t, body.Messages, 2)
	require.Equal(t, types.RoleSystem, body.Messages[0].Role)
}

func TestSignedToken(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := New(provider.Config{APIKey: "abc123.s3cretvalue"})
	p.now = func() time.Time { return now }

	first, err := p.credential()
	require.NoError(t, err)

	token, err := jwt.Parse(first, func(*jwt.Token) (any, error) { return []byte("s3cretvalue"), nil },
		jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	require.Equal(t, "SIGN", token.Header["sign_type"])
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "abc123", claims["api_key"])
	require.EqualValues(t, now.UnixMilli(), claims["timestamp"])

	second, err := p.credential()
	require.NoError(t, err)
	require.Equal(t, first, second, "token is cached")

	now = now.Add(TokenTTL)
	third, err := p.credential()
	require.NoError(t, err)
	require.NotEqual(t, first, third, "token is refreshed after expiry")
}
