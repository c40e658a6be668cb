package verdict

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/verdictlabs/verdict-go/api"
	"github.com/verdictlabs/verdict-go/config"
	"github.com/verdictlabs/verdict-go/eval"
	"github.com/verdictlabs/verdict-go/logger"
	"github.com/verdictlabs/verdict-go/report"
)

// Client is the main Verdict SDK client
type Client struct {
	config         *config.Config
	logger         logger.Logger
	tracerProvider *trace.TracerProvider
}

// New creates a new Verdict client with the provided TracerProvider.
//
// The TracerProvider is required and should be managed by the caller.
// The client will NOT shut down the provider - you must do this yourself.
//
// Configuration is loaded from environment variables first, then
// explicit options are applied (options take precedence).
//
// Example:
//
//	tp := trace.NewTracerProvider()
//	vc, err := verdict.New(tp,
//	    verdict.WithAPIKey("your-api-key"),
//	    verdict.WithProject("my-project"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tp.Shutdown(context.Background())
func New(tp *trace.TracerProvider, opts ...Option) (*Client, error) {
	if tp == nil {
		return nil, fmt.Errorf("tracer provider is required")
	}

	cfg := config.FromEnv()
	for _, opt := range opts {
		opt(cfg)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewDefaultLogger()
	}

	log.Debug("initializing verdict client",
		"project", cfg.DefaultProjectName,
		"org", cfg.OrgName,
		"api_url", cfg.APIURL)

	return &Client{
		config:         cfg,
		logger:         log,
		tracerProvider: tp,
	}, nil
}

// String returns a string representation of the client
func (c *Client) String() string {
	org := c.config.OrgName
	if org == "" {
		org = "<none>"
	}
	return fmt.Sprintf(`Verdict Client:
  Organization: %s
  Project: %s
  API URL: %s
  App URL: %s`,
		org,
		c.config.DefaultProjectName,
		c.config.APIURL,
		c.config.AppURL,
	)
}

// TracerProvider returns the OpenTelemetry TracerProvider used by this client.
func (c *Client) TracerProvider() *trace.TracerProvider {
	return c.tracerProvider
}

// Tracer returns an OpenTelemetry Tracer with the given name.
// This is a convenience method equivalent to calling TracerProvider().Tracer(name, opts...).
func (c *Client) Tracer(name string, opts ...oteltrace.TracerOption) oteltrace.Tracer {
	return c.tracerProvider.Tracer(name, opts...)
}

// API returns a client for making direct calls to the Verdict tracking
// service. This provides low-level access to projects, datasets, and runs.
func (c *Client) API() *api.API {
	client, err := api.NewClient(
		c.config.APIKey,
		api.WithAPIURL(c.config.APIURL),
		api.WithLogger(c.logger),
	)
	if err != nil {
		c.logger.Error("failed to create API client", "error", err)
		return nil
	}
	return client
}

// Runner runs evaluations with the client's defaults and tracer provider,
// and uploads run summaries to the tracking service when an API key is
// configured. Create one with NewRunner.
type Runner[I, R any] struct {
	client *Client
}

// NewRunner creates a new runner for running multiple evaluations with the
// same input and output types.
//
// Example:
//
//	client, _ := verdict.New(tp, verdict.WithProject("my-project"))
//
//	runner := verdict.NewRunner[string, string](client)
//	result, err := runner.Run(ctx, eval.Opts[string, string]{
//	    RunLabel: "baseline",
//	    Examples: examples,
//	    Target:   target,
//	    Scorers:  scorers,
//	})
func NewRunner[I, R any](client *Client) *Runner[I, R] {
	return &Runner[I, R]{client: client}
}

// Run executes an evaluation. Zero-valued Parallelism and Timeout fall back
// to the client's configured defaults. If an API key is configured, the run
// summary is uploaded afterwards; upload failures are logged, never fatal.
func (r *Runner[I, R]) Run(ctx context.Context, opts eval.Opts[I, R]) (*eval.RunResult[I, R], error) {
	cfg := r.client.config
	if opts.Parallelism == 0 {
		opts.Parallelism = cfg.DefaultParallelism
	}
	if opts.Timeout == 0 {
		opts.Timeout = cfg.DefaultTimeout
	}

	result, err := eval.RunWith(ctx, opts, r.client.tracerProvider)
	if result != nil && cfg.APIKey != "" {
		if pubErr := r.publish(ctx, result); pubErr != nil {
			r.client.logger.Warn("failed to upload run summary", "error", pubErr)
		}
	}
	return result, err
}

// publish registers the run with the tracking service and uploads its
// aggregate summary.
func (r *Runner[I, R]) publish(ctx context.Context, result *eval.RunResult[I, R]) error {
	apiClient := r.client.API()
	if apiClient == nil {
		return fmt.Errorf("no API client available")
	}

	project, err := apiClient.Projects().Register(ctx, r.client.config.DefaultProjectName)
	if err != nil {
		return fmt.Errorf("register project: %w", err)
	}

	run, err := apiClient.Runs().Register(ctx, result.Label, project.ID, result.Tags, result.Metadata)
	if err != nil {
		return fmt.Errorf("register run: %w", err)
	}

	scores := map[string]api.ScoreSummary{}
	for name, s := range report.Summarize(result) {
		scores[name] = api.ScoreSummary{
			Mean:     s.Mean,
			Scored:   s.Scored,
			Failures: s.Failures,
		}
	}

	summary := api.RunSummary{
		Label:       result.Label,
		StartedAt:   result.StartedAt,
		DurationSec: result.Elapsed.Seconds(),
		Examples:    len(result.Records),
		Failures:    result.FailureCount(),
		Unprocessed: result.Unprocessed,
		Scores:      scores,
		Metadata:    result.Metadata,
	}
	if err := apiClient.Runs().LogSummary(ctx, run.ID, summary); err != nil {
		return fmt.Errorf("log summary: %w", err)
	}

	r.client.logger.Debug("uploaded run summary", "run_id", run.ID, "label", result.Label)
	return nil
}
