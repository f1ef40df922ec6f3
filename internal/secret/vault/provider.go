// Package vault resolves "vault://path#field" secret references against
// HashiCorp Vault (KV v1 or v2).
package vault

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/aimichat/llmrouter/internal/secret"
)

// Config holds connection settings. Token wins over AppRole credentials.
type Config struct {
	Address  string
	Token    string
	RoleID   string
	SecretID string
}

// Provider reads secrets from Vault.
type Provider struct {
	client *vault.Client
}

// New connects and authenticates to Vault.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	vcfg := vault.DefaultConfig()
	if cfg.Address != "" {
		vcfg.Address = cfg.Address
	}
	client, err := vault.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}

	switch {
	case cfg.Token != "":
		client.SetToken(cfg.Token)
	case cfg.RoleID != "":
		login, err := client.Logical().WriteWithContext(ctx, "auth/approle/login", map[string]interface{}{
			"role_id":   cfg.RoleID,
			"secret_id": cfg.SecretID,
		})
		if err != nil {
			return nil, fmt.Errorf("vault approle login: %w", err)
		}
		if login == nil || login.Auth == nil {
			return nil, fmt.Errorf("vault login returned no auth info")
		}
		client.SetToken(login.Auth.ClientToken)
	default:
		return nil, fmt.Errorf("vault: neither token nor approle credentials configured")
	}

	return &Provider{client: client}, nil
}

// Get reads ref.Path and returns ref.Field; the field defaults to "value".
func (p *Provider) Get(ctx context.Context, ref secret.Ref) (string, error) {
	path, field := ref.Path, ref.Field
	if field == "" {
		field = "value"
	}

	sec, err := p.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("read vault secret %q: %w", path, err)
	}
	if sec == nil || sec.Data == nil {
		return "", fmt.Errorf("secret %q not found", path)
	}

	data := sec.Data
	if nested, ok := data["data"].(map[string]interface{}); ok {
		data = nested
	}
	val, ok := data[field]
	if !ok {
		return "", fmt.Errorf("field %q not found in secret %q", field, path)
	}
	return fmt.Sprintf("%v", val), nil
}

// Close is a no-op; the client holds no background workers.
func (p *Provider) Close() error { return nil }
