package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aimichat/llmrouter/pkg/types"
)

func TestManagerWithoutFile(t *testing.T) {
	m, err := NewManager(context.Background(), "", slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithLookup(mapLookup(map[string]string{"DEEPSEEK_API_KEY": "ds"})))
	require.NoError(t, err)
	require.True(t, m.Get().HasKey(types.DeepSeek))
	require.NoError(t, m.Watch(context.Background()))
	require.NoError(t, m.Close())
}

func TestManagerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routing:\n  default_provider: gemini\n"), 0o600))

	m, err := NewManager(context.Background(), path, slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithLookup(mapLookup(nil)),
		WithResolver(fakeResolver{"env://K": "resolved"}))
	require.NoError(t, err)
	require.Equal(t, "gemini", m.Get().Routing.DefaultProvider)

	changed := make(chan *Config, 1)
	m.OnChange(func(c *Config) { changed <- c })

	require.NoError(t, os.WriteFile(path, []byte("routing:\n  default_provider: zhipu\nproviders:\n  zhipu:\n    api_key: env://K\n"), 0o600))
	m.Reload(context.Background())

	select {
	case c := <-changed:
		require.Equal(t, "zhipu", c.Routing.DefaultProvider)
		require.Equal(t, "resolved", c.Provider(types.Zhipu).APIKey)
	case <-time.After(time.Second):
		t.Fatal("OnChange not invoked")
	}
	require.Equal(t, "zhipu", m.Get().Routing.DefaultProvider)

	// A broken file keeps the previous configuration.
	require.NoError(t, os.WriteFile(path, []byte("routing: [unterminated"), 0o600))
	m.Reload(context.Background())
	require.Equal(t, "zhipu", m.Get().Routing.DefaultProvider)
}

func TestManagerWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routing:\n  default_provider: gemini\n"), 0o600))

	m, err := NewManager(context.Background(), path, nil, WithLookup(mapLookup(nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, m.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte("routing:\n  default_provider: moonshot\n"), 0o600))
	require.Eventually(t, func() bool {
		return m.Get().Routing.DefaultProvider == "moonshot"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestStaticSource(t *testing.T) {
	cfg := DefaultConfig()
	var src Source = NewStatic(cfg)
	require.Same(t, cfg, src.Get())
}

type flushingResolver struct {
	fakeResolver
	flushes int
}

func (f *flushingResolver) Flush() { f.flushes++ }

func TestManagerReloadFlushesSecrets(t *testing.T) {
	r := &flushingResolver{fakeResolver: fakeResolver{}}
	m, err := NewManager(context.Background(), "", slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithLookup(mapLookup(nil)), WithResolver(r))
	require.NoError(t, err)
	require.Zero(t, r.flushes)

	m.Reload(context.Background())
	require.Equal(t, 1, r.flushes)
}
