package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 18990,
			Bind: "127.0.0.1",
		},
		Session: SessionConfig{
			Store: "sqlite",
		},
		Engagement: EngagementConfig{
			SafetyCap: 20,
			SoftCap:   8,
		},
		Callback: CallbackConfig{
			MaxRetries:            4,
			AttemptTimeoutSeconds: 10,
		},
		Renderer: RendererConfig{
			Provider: "template",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
