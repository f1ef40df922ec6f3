// Package healthcheck periodically sends a test prompt to every provider
// that has a key and keeps the latest result per provider.
package healthcheck

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/metrics"
	"github.com/aimichat/llmrouter/internal/status"
	"github.com/aimichat/llmrouter/pkg/types"
)

const defaultProbeInterval = 5 * time.Minute

// Tester runs one key test. *llmrouter.Client implements it.
type Tester interface {
	TestProvider(ctx context.Context, id types.ProviderID, model string) (*status.KeyTestResult, error)
	Config() *config.Config
}

// Prober probes configured providers on an interval.
type Prober struct {
	interval time.Duration
	tester   Tester
	logger   *slog.Logger
	started  atomic.Bool

	mu      sync.RWMutex
	results map[types.ProviderID]*status.KeyTestResult
}

// NewProber creates a prober. A non-positive interval uses the default.
func NewProber(interval time.Duration, tester Tester, logger *slog.Logger) *Prober {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		interval: interval,
		tester:   tester,
		logger:   logger,
		results:  make(map[types.ProviderID]*status.KeyTestResult),
	}
}

// Start begins the probe loop until ctx is canceled. Later calls are no-ops.
func (p *Prober) Start(ctx context.Context) {
	if p == nil || p.tester == nil {
		return
	}
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	go p.run(ctx)
}

func (p *Prober) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			p.RunOnce(ctx)
		case <-ctx.Done():
			p.logger.Info("key prober stopped")
			return
		}
	}
}

// RunOnce probes every provider that currently has a key, one at a time.
// Providers whose key was removed are dropped from the results.
func (p *Prober) RunOnce(ctx context.Context) {
	configured := p.tester.Config().ConfiguredProviders()
	keep := make(map[types.ProviderID]bool, len(configured))

	for _, id := range configured {
		if ctx.Err() != nil {
			return
		}
		keep[id] = true

		res, err := p.tester.TestProvider(ctx, id, "")
		if err != nil {
			p.logger.Warn("key probe could not run", "provider", id, "error", err)
			continue
		}
		ok := res.Status == status.TestOK
		metrics.RecordProbe(string(id), ok)
		if !ok {
			p.logger.Warn("key probe failed",
				"provider", id,
				"model", res.Model,
				"error_code", res.ErrorCode,
				"latency_ms", res.LatencyMs,
			)
		}

		p.mu.Lock()
		p.results[id] = res
		p.mu.Unlock()
	}

	p.mu.Lock()
	for id := range p.results {
		if !keep[id] {
			delete(p.results, id)
		}
	}
	p.mu.Unlock()
}

// Results returns a copy of the latest result per provider.
func (p *Prober) Results() map[types.ProviderID]status.KeyTestResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[types.ProviderID]status.KeyTestResult, len(p.results))
	for id, res := range p.results {
		out[id] = *res
	}
	return out
}
