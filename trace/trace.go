// Package trace configures OpenTelemetry tracing for evaluation runs.
package trace

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/verdictlabs/verdict-go/config"
)

// Quickstart configures the global OpenTelemetry tracer provider from the
// environment. It is an easy way of getting up and running if you are new to
// OpenTelemetry. It returns a teardown function that should be called before
// your program exits.
func Quickstart() (teardown func(), err error) {
	cfg := config.FromEnv()
	tp, err := NewTracerProvider(cfg)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	teardown = func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "error shutting down tracer provider: %v\n", err)
		}
	}
	return teardown, nil
}

// NewTracerProvider builds a tracer provider from the config. Exporter
// selection, in order: an explicitly injected exporter, the console when
// console tracing is on, otherwise OTLP over HTTP to the configured endpoint.
func NewTracerProvider(cfg *config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	), nil
}

func newExporter(cfg *config.Config) (sdktrace.SpanExporter, error) {
	if cfg.Exporter != nil {
		return cfg.Exporter, nil
	}
	if cfg.ConsoleTracing {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}

	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.APIURL, err)
	}

	clientOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(u.Host),
		otlptracehttp.WithURLPath("/otel/v1/traces"),
	}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, otlptracehttp.WithHeaders(map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}))
	}
	if u.Scheme == "http" {
		clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
	}

	return otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
}
