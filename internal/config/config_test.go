package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	// neutralize ambient overrides so the comparison is against pure defaults
	for _, v := range []string{"HONEYNET_PORT", "HONEYNET_AUTH_TOKEN", "HONEYNET_CALLBACK_URL", "HONEYNET_CALLBACK_TOKEN", "HONEYNET_LOG_LEVEL", "OPENAI_API_KEY"} {
		t.Setenv(v, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
}

func TestLoadMergesDefaults(t *testing.T) {
	t.Setenv("HONEYNET_PORT", "")
	t.Setenv("HONEYNET_CALLBACK_URL", "")
	path := writeConfig(t, `
server:
  port: 9000
callback:
  url: https://reports.example.com/complete
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Bind)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, 20, cfg.Engagement.SafetyCap)
	assert.Equal(t, 8, cfg.Engagement.SoftCap)
	assert.Equal(t, "https://reports.example.com/complete", cfg.Callback.URL)
	assert.Equal(t, 4, cfg.Callback.MaxRetries)
	assert.Equal(t, "template", cfg.Renderer.Provider)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: mapping")

	_, err := Load(path)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestLoadExpandsEnvVarsInSensitiveFields(t *testing.T) {
	t.Setenv("TEST_HONEYNET_SECRET", "s3cret")
	path := writeConfig(t, `
server:
  authToken: ${TEST_HONEYNET_SECRET}
callback:
  authToken: ${TEST_HONEYNET_UNSET_VAR}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Server.AuthToken)
	// unset variables are left as-is rather than silently blanked
	assert.Equal(t, "${TEST_HONEYNET_UNSET_VAR}", cfg.Callback.AuthToken)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HONEYNET_PORT", "7777")
	t.Setenv("HONEYNET_CALLBACK_URL", "https://env.example.com/cb")
	t.Setenv("HONEYNET_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "https://env.example.com/cb", cfg.Callback.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{
			name:   "bad port",
			mutate: func(c *Config) { c.Server.Port = 99999 },
			path:   "server.port",
		},
		{
			name:   "unknown store",
			mutate: func(c *Config) { c.Session.Store = "redis" },
			path:   "session.store",
		},
		{
			name:   "negative safety cap",
			mutate: func(c *Config) { c.Engagement.SafetyCap = -1 },
			path:   "engagement.safetyCap",
		},
		{
			name:   "non http callback url",
			mutate: func(c *Config) { c.Callback.URL = "ftp://x" },
			path:   "callback.url",
		},
		{
			name:   "unknown renderer provider",
			mutate: func(c *Config) { c.Renderer.Provider = "anthropic" },
			path:   "renderer.provider",
		},
		{
			name:   "openai without api key",
			mutate: func(c *Config) { c.Renderer.Provider = "openai" },
			path:   "renderer.apiKey",
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			path:   "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			issues := Validate(&cfg)
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.path, issues[0].Path)
		})
	}
}

func TestValidateDefaultsAreClean(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestResolvePathsHonorsHomeOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HONEYNET_HOME", base)

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, base, p.Base)
	assert.Equal(t, filepath.Join(base, "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join(base, "data"), p.Data)

	require.NoError(t, p.EnsureDirs())
	info, err := os.Stat(p.Data)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
