// Package config provides configuration management for the Verdict SDK.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/verdictlabs/verdict-go/logger"
)

// Config holds immutable configuration for the Verdict SDK.
type Config struct {
	APIKey             string
	APIURL             string
	AppURL             string
	OrgName            string
	DefaultProjectName string

	// Harness defaults
	DefaultParallelism int
	DefaultTimeout     time.Duration

	// Tracing configuration
	ConsoleTracing bool
	Exporter       trace.SpanExporter

	// Logger
	Logger logger.Logger
}

// FromEnv loads configuration from environment variables with defaults.
//
// Supported environment variables:
//   - VERDICT_API_KEY: API key for the tracking service
//   - VERDICT_API_URL: tracking service endpoint (default: "https://api.verdictlabs.dev")
//   - VERDICT_APP_URL: application URL (default: "https://www.verdictlabs.dev")
//   - VERDICT_ORG_NAME: organization name
//   - VERDICT_DEFAULT_PROJECT: default project name (default: "default-go-project")
//   - VERDICT_PARALLELISM: default worker count for eval runs (default: 1)
//   - VERDICT_TIMEOUT: default per-invocation timeout (default: 60s)
//   - VERDICT_CONSOLE_TRACING: write spans to the console instead of OTLP (default: false)
func FromEnv() *Config {
	return &Config{
		APIKey:             getEnvString("VERDICT_API_KEY", ""),
		APIURL:             getEnvString("VERDICT_API_URL", "https://api.verdictlabs.dev"),
		AppURL:             getEnvString("VERDICT_APP_URL", "https://www.verdictlabs.dev"),
		OrgName:            getEnvString("VERDICT_ORG_NAME", ""),
		DefaultProjectName: getEnvString("VERDICT_DEFAULT_PROJECT", "default-go-project"),
		DefaultParallelism: getEnvInt("VERDICT_PARALLELISM", 1),
		DefaultTimeout:     getEnvDuration("VERDICT_TIMEOUT", 60*time.Second),
		ConsoleTracing:     getEnvBool("VERDICT_CONSOLE_TRACING", false),
	}
}

// getEnvString returns the trimmed environment variable value or the default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a bool or the default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(strings.TrimSpace(value)) == "true"
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or the default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or the default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}
