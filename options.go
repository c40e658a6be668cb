package verdict

import (
	"time"

	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/verdictlabs/verdict-go/config"
	"github.com/verdictlabs/verdict-go/logger"
)

// Option is a functional option for configuring a Verdict client
type Option func(*config.Config)

// WithAPIKey sets the API key (overrides VERDICT_API_KEY)
func WithAPIKey(apiKey string) Option {
	return func(c *config.Config) {
		c.APIKey = apiKey
	}
}

// WithAPIURL sets the API URL (overrides VERDICT_API_URL)
func WithAPIURL(apiURL string) Option {
	return func(c *config.Config) {
		c.APIURL = apiURL
	}
}

// WithAppURL sets the app URL (overrides VERDICT_APP_URL)
func WithAppURL(appURL string) Option {
	return func(c *config.Config) {
		c.AppURL = appURL
	}
}

// WithOrgName sets the organization name (overrides VERDICT_ORG_NAME)
func WithOrgName(orgName string) Option {
	return func(c *config.Config) {
		c.OrgName = orgName
	}
}

// WithProject sets the default project name (overrides VERDICT_DEFAULT_PROJECT)
func WithProject(projectName string) Option {
	return func(c *config.Config) {
		c.DefaultProjectName = projectName
	}
}

// WithParallelism sets the default worker count for eval runs
// (overrides VERDICT_PARALLELISM)
func WithParallelism(n int) Option {
	return func(c *config.Config) {
		c.DefaultParallelism = n
	}
}

// WithTimeout sets the default per-invocation timeout for eval runs
// (overrides VERDICT_TIMEOUT)
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config) {
		c.DefaultTimeout = d
	}
}

// WithLogger sets a custom logger for the SDK
// If not provided, a default logger will be used
func WithLogger(l logger.Logger) Option {
	return func(c *config.Config) {
		c.Logger = l
	}
}

// WithExporter injects a custom OpenTelemetry SpanExporter
// If not provided, an OTLP HTTP exporter will be created automatically
// This is primarily useful for testing with a memory exporter
func WithExporter(exporter trace.SpanExporter) Option {
	return func(c *config.Config) {
		c.Exporter = exporter
	}
}
