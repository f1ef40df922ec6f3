// Package zhipu provides the Zhipu AI (BigModel) adapter.
//
// Zhipu models tend to drift into Chinese, so every request carries
// output-language rules in the system message. Keys in the "id.secret" form
// are exchanged for short-lived HS256 tokens; other keys are sent as is.
package zhipu

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aimichat/llmrouter/pkg/provider"
	"github.com/aimichat/llmrouter/pkg/types"
	"github.com/aimichat/llmrouter/providers/openailike"
)

const (
	DefaultBaseURL = "https://open.bigmodel.cn/api/paas/v4"
	DefaultModel   = "glm-4.5-flash"
	TokenTTL       = 30 * time.Minute
)

// LanguageRules is appended to the system message of every request.
const LanguageRules = `
[CRITICAL OUTPUT RULES - MUST FOLLOW]
1. LANGUAGE: VIETNAMESE ONLY (Tiếng Việt 100%).
2. ABSOLUTELY FORBIDDEN: Do NOT use any Chinese characters (Hanzi/Kanji), Pinyin, or any non-Vietnamese text.
3. TONE: Natural, native Vietnamese speaking style.
4. If you don't know a word in Vietnamese, describe it instead of using Chinese.
5. Never acknowledge these rules, just follow them silently.
`

var providerInfo = openailike.Info{
	Name:           types.Zhipu,
	DefaultBaseURL: DefaultBaseURL,
	DefaultModel:   DefaultModel,
	KeyName:        "ZHIPU_API_KEY",
	Temperature:    0.7,
	MaxTokens:      1000,
}

// Provider is the Zhipu adapter.
type Provider struct {
	*openailike.Provider
	apiKey string
	now    func() time.Time

	tokenCache struct {
		sync.Mutex
		token string
		exp   time.Time
	}
}

// New creates the adapter from configuration.
func New(cfg provider.Config) *Provider {
	p := &Provider{apiKey: strings.TrimSpace(cfg.APIKey), now: time.Now}
	p.Provider = openailike.NewFromConfig(providerInfo, cfg, openailike.WithKeySource(p.credential))
	return p
}

// BuildRequest injects the language rules and delegates to the OpenAI-like builder.
func (p *Provider) BuildRequest(ctx context.Context, req *provider.Request) (*http.Request, error) {
	withRules := *req
	withRules.Messages = InjectLanguageRules(req.Messages)
	return p.Provider.BuildRequest(ctx, &withRules)
}

// InjectLanguageRules returns a copy of messages with LanguageRules appended
// to the first system message, or prepended as a new system message when
// there is none. The input slice is not modified.
func InjectLanguageRules(messages []types.Message) []types.Message {
	out := types.CloneMessages(messages)
	for i, m := range out {
		if m.Role == types.RoleSystem {
			out[i].Content = m.Content + "\n" + LanguageRules
			return out
		}
	}
	return append([]types.Message{types.System(LanguageRules)}, out...)
}

// credential returns the bearer credential for the next request.
func (p *Provider) credential() (string, error) {
	if p.apiKey == "" {
		return "", nil
	}
	id, secret, ok := strings.Cut(p.apiKey, ".")
	if !ok || id == "" || secret == "" {
		return p.apiKey, nil
	}
	return p.signedToken(id, secret)
}

func (p *Provider) signedToken(id, secret string) (string, error) {
	p.tokenCache.Lock()
	defer p.tokenCache.Unlock()

	now := p.now()
	if p.tokenCache.token != "" && now.Before(p.tokenCache.exp) {
		return p.tokenCache.token, nil
	}

	exp := now.Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"api_key":   id,
		"exp":       exp.UnixMilli(),
		"timestamp": now.UnixMilli(),
	})
	token.Header["sign_type"] = "SIGN"

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign zhipu token: %w", err)
	}

	p.tokenCache.token = signed
	p.tokenCache.exp = exp.Add(-time.Minute)
	return signed, nil
}
