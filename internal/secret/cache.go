package secret

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProvider remembers resolved keys for a TTL so a config reload does
// not hit the backend once per provider. Empty values are never cached: an
// emptied secret means the key was revoked and the provider must drop out of
// routing on the next load.
type CachedProvider struct {
	inner Provider
	keys  *cache.Cache
}

// NewCachedProvider wraps inner. A non-positive ttl disables expiry.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &CachedProvider{inner: inner, keys: cache.New(ttl, time.Minute)}
}

func (p *CachedProvider) Get(ctx context.Context, ref Ref) (string, error) {
	id := ref.String()
	if v, ok := p.keys.Get(id); ok {
		return v.(string), nil
	}

	v, err := p.inner.Get(ctx, ref)
	if err != nil || v == "" {
		return v, err
	}
	p.keys.SetDefault(id, v)
	return v, nil
}

// Flush forgets every cached key.
func (p *CachedProvider) Flush() { p.keys.Flush() }

func (p *CachedProvider) Close() error {
	p.keys.Flush()
	return p.inner.Close()
}
