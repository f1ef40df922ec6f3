package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aimichat/llmrouter/internal/api"
	"github.com/aimichat/llmrouter/internal/healthcheck"
	"github.com/aimichat/llmrouter/internal/observability"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, opts, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.logger
	cfg := rt.manager.Get()

	if err := rt.manager.Watch(ctx); err != nil {
		logger.Warn("config hot-reload disabled", "error", err)
	}

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracing(ctx, cfg.Tracing)
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(shutdownCtx)
			}()
		}
	}

	var limiter *api.RateLimiter
	if cfg.Server.RateLimit.Enabled {
		limiter = api.NewRateLimiter(cfg.Server.RateLimit.RequestsPerMinute, cfg.Server.RateLimit.BurstSize)
	}
	handlerCfg := &api.HandlerConfig{}
	if cfg.HealthCheck.Enabled {
		prober := healthcheck.NewProber(cfg.HealthCheck.Interval, rt.client, logger.Slog())
		prober.Start(ctx)
		handlerCfg.Probes = prober
	}
	handler := api.NewHandler(rt.client, logger, handlerCfg)

	if addr == "" {
		addr = cfg.Server.Addr
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, limiter),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
