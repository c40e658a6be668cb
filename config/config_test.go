package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"VERDICT_API_KEY", "VERDICT_API_URL", "VERDICT_APP_URL",
		"VERDICT_ORG_NAME", "VERDICT_DEFAULT_PROJECT", "VERDICT_PARALLELISM",
		"VERDICT_TIMEOUT", "VERDICT_CONSOLE_TRACING",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, "https://api.verdictlabs.dev", cfg.APIURL)
	assert.Equal(t, "https://www.verdictlabs.dev", cfg.AppURL)
	assert.Equal(t, "default-go-project", cfg.DefaultProjectName)
	assert.Equal(t, 1, cfg.DefaultParallelism)
	assert.Equal(t, 60*time.Second, cfg.DefaultTimeout)
	assert.False(t, cfg.ConsoleTracing)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("VERDICT_API_KEY", "  sk-test  ")
	t.Setenv("VERDICT_API_URL", "https://api.example.com")
	t.Setenv("VERDICT_ORG_NAME", "acme")
	t.Setenv("VERDICT_DEFAULT_PROJECT", "chatbot")
	t.Setenv("VERDICT_PARALLELISM", "8")
	t.Setenv("VERDICT_TIMEOUT", "90s")
	t.Setenv("VERDICT_CONSOLE_TRACING", "TRUE")

	cfg := FromEnv()

	assert.Equal(t, "sk-test", cfg.APIKey, "values are trimmed")
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "acme", cfg.OrgName)
	assert.Equal(t, "chatbot", cfg.DefaultProjectName)
	assert.Equal(t, 8, cfg.DefaultParallelism)
	assert.Equal(t, 90*time.Second, cfg.DefaultTimeout)
	assert.True(t, cfg.ConsoleTracing)
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("VERDICT_PARALLELISM", "lots")
	t.Setenv("VERDICT_TIMEOUT", "soon")
	t.Setenv("VERDICT_CONSOLE_TRACING", "yes")

	cfg := FromEnv()

	assert.Equal(t, 1, cfg.DefaultParallelism)
	assert.Equal(t, 60*time.Second, cfg.DefaultTimeout)
	assert.False(t, cfg.ConsoleTracing, `only "true" enables console tracing`)
}
