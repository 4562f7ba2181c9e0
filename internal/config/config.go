// Package config loads advisor configuration from .advisor/config.json with
// environment-variable overrides. Missing config is not an error: every field
// has a working default so the engine can boot with just an API key (or with
// no key at all, in which case generative fallback degrades gracefully).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the root configuration object.
type Config struct {
	// CatalogDir points at a directory with courses.yaml, tracks.yaml and
	// templates.yaml. Empty means the embedded default catalog.
	CatalogDir string `json:"catalog_dir,omitempty"`

	LLM     LLMConfig     `json:"llm"`
	Limits  LimitsConfig  `json:"limits"`
	Logging LoggingConfig `json:"logging"`
}

// LLMConfig configures the generative fallback client.
type LLMConfig struct {
	// Provider selects the client implementation: "gemini", "openai", or
	// "none" to disable the fallback path entirely.
	Provider string `json:"provider"`
	APIKey   string `json:"api_key,omitempty"`
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`

	// TimeoutSeconds bounds every external call. On timeout the engine
	// degrades to an "unable to answer confidently" response.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// Timeout returns the external-call timeout as a duration.
func (l LLMConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// LimitsConfig holds routing thresholds and session limits.
type LimitsConfig struct {
	// StructuredThreshold is the minimum confidence for a structured route
	// to be served; below it the query falls through to generative.
	StructuredThreshold float64 `json:"structured_threshold,omitempty"`

	// FallbackConfidence is the fixed low-trust constant attached to
	// generative answers.
	FallbackConfidence float64 `json:"fallback_confidence,omitempty"`

	// MaxSessions caps the in-memory session store.
	MaxSessions int `json:"max_sessions,omitempty"`
}

// LoggingConfig mirrors logging.loggingConfig; the logging package reads it
// directly from the same file to avoid an import cycle.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
	JSONFormat bool            `json:"json_format,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "gemini",
			Model:          "gemini-2.0-flash",
			TimeoutSeconds: 30,
		},
		Limits: LimitsConfig{
			StructuredThreshold: 0.55,
			FallbackConfidence:  0.30,
			MaxSessions:         1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads .advisor/config.json under the workspace, applies defaults and
// environment overrides. A missing file yields the defaults.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, ".advisor", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.0-flash"
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 30
	}
	if c.Limits.StructuredThreshold <= 0 {
		c.Limits.StructuredThreshold = 0.55
	}
	if c.Limits.FallbackConfidence <= 0 {
		c.Limits.FallbackConfidence = 0.30
	}
	if c.Limits.MaxSessions <= 0 {
		c.Limits.MaxSessions = 1024
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// applyEnvOverrides lets environment variables win over file config.
// Precedence for API keys: GEMINI_API_KEY, then OPENAI_API_KEY.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
		if c.LLM.Provider == "" || c.LLM.Provider == "gemini" {
			c.LLM.Provider = "gemini"
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
		c.LLM.Provider = "openai"
	}
	if v := os.Getenv("ADVISOR_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("ADVISOR_CATALOG_DIR"); v != "" {
		c.CatalogDir = v
	}
	if v := os.Getenv("ADVISOR_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.LLM.TimeoutSeconds = n
		}
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "none":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Limits.StructuredThreshold >= 1.0 {
		return fmt.Errorf("structured_threshold must be below 1.0, got %v", c.Limits.StructuredThreshold)
	}
	if c.Limits.FallbackConfidence >= c.Limits.StructuredThreshold {
		return fmt.Errorf("fallback_confidence (%v) must stay below structured_threshold (%v)",
			c.Limits.FallbackConfidence, c.Limits.StructuredThreshold)
	}
	return nil
}
