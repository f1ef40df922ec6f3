package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aimichat/llmrouter"
	"github.com/aimichat/llmrouter/internal/config"
	"github.com/aimichat/llmrouter/internal/observability"
	"github.com/aimichat/llmrouter/internal/secret"
	"github.com/aimichat/llmrouter/internal/secret/env"
	"github.com/aimichat/llmrouter/internal/secret/vault"
)

// runtime bundles what every command needs.
type runtime struct {
	manager *config.Manager
	secrets *secret.Manager
	logger  *observability.Logger
	client  *llmrouter.Client
}

// newRuntime loads configuration, wires secret resolution and builds the
// client. Logs go to logOut.
func newRuntime(ctx context.Context, opts *rootOptions, logOut io.Writer) (*runtime, error) {
	bootstrap, err := config.Load(opts.configPath, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := observability.ConfigFor(bootstrap.Development(), logOut)
	if opts.jsonLogs {
		logCfg.JSONFormat = true
	}
	logger := observability.NewLogger(logCfg, observability.NewRedactor())

	secrets, err := newSecrets(ctx, bootstrap)
	if err != nil {
		return nil, err
	}

	manager, err := config.NewManager(ctx, opts.configPath, logger.Slog(), config.WithResolver(secrets))
	if err != nil {
		_ = secrets.Close()
		return nil, fmt.Errorf("load config: %w", err)
	}

	client, err := llmrouter.New(llmrouter.WithSource(manager), llmrouter.WithLogger(logger))
	if err != nil {
		_ = manager.Close()
		_ = secrets.Close()
		return nil, err
	}

	return &runtime{manager: manager, secrets: secrets, logger: logger, client: client}, nil
}

// newSecrets registers the env:// provider and, when credentials are
// configured, the vault:// provider. Both are cached for the configured TTL.
func newSecrets(ctx context.Context, cfg *config.Config) (*secret.Manager, error) {
	m := secret.NewManager()
	m.Register("env", env.New())

	if cfg.Secrets.Vault.Enabled() {
		v, err := vault.New(ctx, vault.Config{
			Address:  cfg.Secrets.Vault.Address,
			Token:    cfg.Secrets.Vault.Token,
			RoleID:   cfg.Secrets.Vault.RoleID,
			SecretID: cfg.Secrets.Vault.SecretID,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to vault: %w", err)
		}
		m.Register("vault", secret.NewCachedProvider(v, cfg.Secrets.CacheTTL))
	}
	return m, nil
}

func (r *runtime) Close() {
	_ = r.client.Close()
	_ = r.manager.Close()
	_ = r.secrets.Close()
}
