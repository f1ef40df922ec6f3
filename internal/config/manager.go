package config

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Source hands out the current configuration. Callers fetch it on every
// request instead of holding on to it.
type Source interface {
	Get() *Config
}

// Static is a Source that always returns the same configuration.
type Static struct {
	cfg *Config
}

// NewStatic wraps cfg as a Source.
func NewStatic(cfg *Config) *Static {
	return &Static{cfg: cfg}
}

// Get returns the wrapped configuration.
func (s *Static) Get() *Config { return s.cfg }

// Manager loads configuration from the environment and an optional YAML
// file, resolves secret references and hot-reloads the file on change.
type Manager struct {
	config   atomic.Pointer[Config]
	path     string
	lookup   LookupFunc
	resolver Resolver
	logger   *slog.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	onChange []func(*Config)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLookup replaces os.LookupEnv as the environment source.
func WithLookup(lookup LookupFunc) ManagerOption {
	return func(m *Manager) { m.lookup = lookup }
}

// WithResolver resolves secret references in API keys on every load.
func WithResolver(r Resolver) ManagerOption {
	return func(m *Manager) { m.resolver = r }
}

// NewManager loads the initial configuration. path may be empty.
func NewManager(ctx context.Context, path string, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		path:   path,
		lookup: os.LookupEnv,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}

	cfg, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	m.config.Store(cfg)
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "warning", w)
	}
	return m, nil
}

func (m *Manager) load(ctx context.Context) (*Config, error) {
	cfg, err := Load(m.path, m.lookup)
	if err != nil {
		return nil, err
	}
	if m.resolver != nil {
		return cfg.ResolveSecrets(ctx, m.resolver)
	}
	return cfg, nil
}

// Get returns the current configuration.
// This is safe to call concurrently from multiple goroutines.
func (m *Manager) Get() *Config {
	return m.config.Load()
}

// OnChange registers a callback invoked after each successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Watch starts watching the configuration file. It is a no-op when the
// manager was created without a file.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(m.path); err != nil {
		_ = watcher.Close()
		return err
	}

	m.mu.Lock()
	m.watcher = watcher
	m.mu.Unlock()

	go m.watchLoop(ctx, watcher)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	const debounceDelay = 500 * time.Millisecond
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					m.Reload(ctx)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.logger.Error("config watcher error", "error", err)
		}
	}
}

// Reload rebuilds the configuration. Cached secrets are dropped first so
// rotated keys are picked up. On failure the current one is kept.
func (m *Manager) Reload(ctx context.Context) {
	if f, ok := m.resolver.(interface{ Flush() }); ok {
		f.Flush()
	}
	newCfg, err := m.load(ctx)
	if err != nil {
		m.logger.Error("failed to reload config, keeping current", "error", err)
		return
	}

	m.config.Store(newCfg)
	m.logger.Info("configuration reloaded",
		"providers", len(newCfg.ConfiguredProviders()),
		"fallback_enabled", newCfg.Routing.FallbackEnabled,
	)

	m.mu.Lock()
	callbacks := append([]func(*Config){}, m.onChange...)
	m.mu.Unlock()
	for _, fn := range callbacks {
		fn(newCfg)
	}
}

// Close stops the file watcher.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher != nil {
		err := m.watcher.Close()
		m.watcher = nil
		return err
	}
	return nil
}
