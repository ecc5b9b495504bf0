package config

import (
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so tokens and keys can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Server.AuthToken = expandEnvVars(cfg.Server.AuthToken)
	cfg.Callback.AuthToken = expandEnvVars(cfg.Callback.AuthToken)
	cfg.Renderer.APIKey = expandEnvVars(cfg.Renderer.APIKey)
}

// Load reads the config file, applies environment overrides, and returns a
// merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = def.Server.Bind
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = def.Session.Store
	}
	if cfg.Engagement.SafetyCap == 0 {
		cfg.Engagement.SafetyCap = def.Engagement.SafetyCap
	}
	if cfg.Engagement.SoftCap == 0 {
		cfg.Engagement.SoftCap = def.Engagement.SoftCap
	}
	if cfg.Callback.MaxRetries == 0 {
		cfg.Callback.MaxRetries = def.Callback.MaxRetries
	}
	if cfg.Callback.AttemptTimeoutSeconds == 0 {
		cfg.Callback.AttemptTimeoutSeconds = def.Callback.AttemptTimeoutSeconds
	}
	if cfg.Renderer.Provider == "" {
		cfg.Renderer.Provider = def.Renderer.Provider
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// applyEnvOverrides maps HONEYNET_* environment variables onto the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HONEYNET_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HONEYNET_AUTH_TOKEN"); v != "" {
		cfg.Server.AuthToken = v
	}
	if v := os.Getenv("HONEYNET_CALLBACK_URL"); v != "" {
		cfg.Callback.URL = v
	}
	if v := os.Getenv("HONEYNET_CALLBACK_TOKEN"); v != "" {
		cfg.Callback.AuthToken = v
	}
	if v := os.Getenv("HONEYNET_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Renderer.APIKey == "" {
		cfg.Renderer.APIKey = v
	}
}
