package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validStores := []string{"sqlite", "memory"}
	if cfg.Session.Store != "" && !slices.Contains(validStores, cfg.Session.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "session.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.Session.Store),
		})
	}

	if cfg.Engagement.SafetyCap < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "engagement.safetyCap",
			Message: "must not be negative",
		})
	}
	if cfg.Engagement.SoftCap < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "engagement.softCap",
			Message: "must not be negative",
		})
	}

	if cfg.Callback.URL != "" {
		u, err := url.Parse(cfg.Callback.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			issues = append(issues, ValidationIssue{
				Path:    "callback.url",
				Message: fmt.Sprintf("must be an http(s) URL, got %q", cfg.Callback.URL),
			})
		}
	}
	if cfg.Callback.MaxRetries < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "callback.maxRetries",
			Message: "must not be negative",
		})
	}

	validProviders := []string{"template", "openai"}
	if cfg.Renderer.Provider != "" && !slices.Contains(validProviders, cfg.Renderer.Provider) {
		issues = append(issues, ValidationIssue{
			Path:    "renderer.provider",
			Message: fmt.Sprintf("must be one of %v, got %q", validProviders, cfg.Renderer.Provider),
		})
	}
	if cfg.Renderer.Provider == "openai" && cfg.Renderer.APIKey == "" {
		issues = append(issues, ValidationIssue{
			Path:    "renderer.apiKey",
			Message: "required when renderer.provider is openai",
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
