package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ADVISOR_MODEL", "ADVISOR_CATALOG_DIR", "ADVISOR_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.InDelta(t, 0.55, cfg.Limits.StructuredThreshold, 0.001)
	assert.InDelta(t, 0.30, cfg.Limits.FallbackConfidence, 0.001)
	assert.Equal(t, 1024, cfg.Limits.MaxSessions)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	ws := t.TempDir()
	dir := filepath.Join(ws, ".advisor")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{
		"llm": {"provider": "openai", "api_key": "sk-test", "model": "gpt-4o-mini", "timeout_seconds": 5},
		"limits": {"structured_threshold": 0.6, "fallback_confidence": 0.2}
	}`), 0644))

	cfg, err := Load(ws)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 5, cfg.LLM.TimeoutSeconds)
	assert.InDelta(t, 0.6, cfg.Limits.StructuredThreshold, 0.001)
	assert.InDelta(t, 0.2, cfg.Limits.FallbackConfidence, 0.001)
	// Unset fields still get defaults.
	assert.Equal(t, 1024, cfg.Limits.MaxSessions)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("ADVISOR_MODEL", "gemini-2.5-pro")
	t.Setenv("ADVISOR_TIMEOUT_SECONDS", "7")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gm-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 7, cfg.LLM.TimeoutSeconds)
}

func TestOpenAIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.Limits.FallbackConfidence = 0.7 // above the structured threshold
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Limits.StructuredThreshold = 1.5
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.Provider = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestTimeoutDefault(t *testing.T) {
	var l LLMConfig
	assert.Equal(t, "30s", l.Timeout().String())
	l.TimeoutSeconds = 5
	assert.Equal(t, "5s", l.Timeout().String())
}
