package config

// Config is the root configuration for the honeynet service.
type Config struct {
	Server     ServerConfig     `yaml:"server,omitempty"`
	Session    SessionConfig    `yaml:"session,omitempty"`
	Engagement EngagementConfig `yaml:"engagement,omitempty"`
	Callback   CallbackConfig   `yaml:"callback,omitempty"`
	Renderer   RendererConfig   `yaml:"renderer,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port int    `yaml:"port,omitempty"`
	Bind string `yaml:"bind,omitempty"` // listen address, default 127.0.0.1

	// AuthToken protects the operator endpoints and the event feed. The
	// ingest endpoint stays open; it is what the scammer-facing channels
	// call. Supports ${ENV_VAR} expansion.
	AuthToken string `yaml:"authToken,omitempty"`
}

// SessionConfig selects the session storage backend.
type SessionConfig struct {
	Store string `yaml:"store,omitempty"` // "sqlite" | "memory"
}

// EngagementConfig bounds how long a session is kept engaged.
type EngagementConfig struct {
	// SafetyCap is the maximum number of accepted messages per session.
	SafetyCap int `yaml:"safetyCap,omitempty"`
	// SoftCap is the maximum number of turns after the first payment
	// identifier sighting before the session is closed out.
	SoftCap int `yaml:"softCap,omitempty"`
}

// CallbackConfig controls completion callback delivery.
type CallbackConfig struct {
	URL                   string `yaml:"url,omitempty"`
	AuthToken             string `yaml:"authToken,omitempty"` // supports ${ENV_VAR} expansion
	MaxRetries            int    `yaml:"maxRetries,omitempty"`
	AttemptTimeoutSeconds int    `yaml:"attemptTimeoutSeconds,omitempty"`
}

// RendererConfig selects how replies are phrased.
type RendererConfig struct {
	Provider string `yaml:"provider,omitempty"` // "openai" | "template"
	APIKey   string `yaml:"apiKey,omitempty"`   // supports ${ENV_VAR} expansion
	Model    string `yaml:"model,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}
