package types //nolint:revive // package name is intentional

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProviderID(t *testing.T) {
	tests := []struct {
		in     string
		want   ProviderID
		wantOK bool
	}{
		{"", Default, true},
		{"default", Default, true},
		{" Gemini ", Gemini, true},
		{"silicon", Silicon, true},
		{"openrouter", OpenRouter, true},
		{"google", ProviderID("google"), false},
		{"anthropic", ProviderID("anthropic"), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseProviderID(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDefaultIsNotKnown(t *testing.T) {
	require.False(t, Default.Known())
	for _, id := range KnownProviders() {
		require.True(t, id.Known(), id)
	}
}

func TestLastUserContent(t *testing.T) {
	msgs := []Message{System("sys"), User("first"), Assistant("reply"), User("second"), Assistant("again")}
	require.Equal(t, "second", LastUserContent(msgs))
	require.Equal(t, "", LastUserContent([]Message{System("only")}))
}

func TestCloneMessagesIsIndependent(t *testing.T) {
	orig := []Message{System("a"), User("b")}
	cp := CloneMessages(orig)
	cp[0].Content = "changed"
	require.Equal(t, "a", orig[0].Content)
}

func TestFirstContent(t *testing.T) {
	var nilResp *ChatResponse
	require.Equal(t, "", nilResp.FirstContent())
	require.Equal(t, "", (&ChatResponse{}).FirstContent())
	resp := &ChatResponse{Choices: []Choice{{Message: Assistant("hi")}}}
	require.Equal(t, "hi", resp.FirstContent())
}
