package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimichat/llmrouter/internal/status"
	"github.com/aimichat/llmrouter/pkg/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SILICON_API_KEY", "GEMINI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY",
		"DEEPSEEK_API_KEY", "MOONSHOT_API_KEY", "OPENROUTER_API_KEY", "ZHIPU_API_KEY",
		"OPENAI_API_KEY", "LLM_DEFAULT_PROVIDER", "LLM_ENABLE_FALLBACK", "LLM_FALLBACK_PROVIDERS",
		"VAULT_ADDR", "VAULT_TOKEN",
	} {
		t.Setenv(name, "")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "status", "generate", "test-key"})
}

func TestStatusCommand_JSON(t *testing.T) {
	clearProviderEnv(t)
	path := writeConfig(t, `
providers:
  deepseek:
    api_key: sk-test-deepseek
`)
	out, err := run(t, "status", "--config", path, "--json")
	require.NoError(t, err)

	var report status.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, status.StateOperational, report.Summary.Status)
	assert.Equal(t, 1, report.Summary.Configured)
	assert.True(t, report.Providers[types.DeepSeek].Configured)
	assert.False(t, report.Providers[types.Gemini].Configured)
	assert.NotContains(t, out, "sk-test-deepseek")
}

func TestStatusCommand_Text(t *testing.T) {
	clearProviderEnv(t)
	path := writeConfig(t, "{}\n")
	out, err := run(t, "status", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, status.StateNoProviders)
	assert.Contains(t, out, "(not set)")
}

func TestGenerateCommand_InvalidMode(t *testing.T) {
	clearProviderEnv(t)
	path := writeConfig(t, "{}\n")
	_, err := run(t, "generate", "--config", path, "--mode", "bogus", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestGenerateCommand_RequiresMessage(t *testing.T) {
	_, err := run(t, "generate")
	require.Error(t, err)
}

func TestTestKeyCommand_UnknownProvider(t *testing.T) {
	clearProviderEnv(t)
	path := writeConfig(t, "{}\n")
	_, err := run(t, "test-key", "--config", path, "nope")
	require.Error(t, err)
}
