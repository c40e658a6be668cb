// Package oteltest provides testing utilities for OpenTelemetry tracing.
// It includes an in-memory span exporter and assertion helpers for verifying
// span attributes, events, and structure in unit tests.
package oteltest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	attr "go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Setup sets up otel tracing for testing (no sampling, sync, stores spans in memory)
// and returns a Tracer and an Exporter that can be used to flush the spans.
func Setup(t *testing.T) (oteltrace.Tracer, *Exporter) {
	t.Helper()

	// setup otel to be fully synchronous
	exporter := tracetest.NewInMemoryExporter()
	processor := sdktrace.NewSimpleSpanProcessor(exporter)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
	)
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer := otel.GetTracerProvider().Tracer(t.Name())

	t.Cleanup(func() {
		ctx := context.Background()

		err := tp.Shutdown(ctx)
		if err != nil {
			t.Errorf("Error shutting down tracer provider: %v", err)
		}
		otel.SetTracerProvider(original)
	})

	return tracer, &Exporter{exporter: exporter, t: t}
}

// Exporter is a wrapper around the OTel InMemoryExporter that provides some
// helper functions for testing.
type Exporter struct {
	exporter *tracetest.InMemoryExporter
	t        *testing.T
}

// InMemoryExporter returns the underlying OTel InMemoryExporter.
func (e *Exporter) InMemoryExporter() *tracetest.InMemoryExporter {
	return e.exporter
}

// Flush returns the spans buffered in memory.
func (e *Exporter) Flush() []Span {
	stubs := e.exporter.GetSpans()
	e.exporter.Reset()

	spans := make([]Span, len(stubs))
	for i, span := range stubs {
		spans[i] = Span{t: e.t, Stub: span}
	}

	return spans
}

// FlushOne returns the first span buffered in memory and fails if there is not
// exactly one span.
func (e *Exporter) FlushOne() Span {
	e.t.Helper()
	spans := e.Flush()
	if len(spans) != 1 {
		e.t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	return spans[0]
}

// Span is a wrapper around the OTel SpanStub with some helpful
// testing functions.
type Span struct {
	t    *testing.T
	Stub tracetest.SpanStub
}

// Name returns the span's name.
func (s *Span) Name() string {
	return s.Stub.Name
}

// Status returns the span's status.
func (s *Span) Status() sdktrace.Status {
	return s.Stub.Status
}

// Events returns the span's events.
func (s *Span) Events() []sdktrace.Event {
	return s.Stub.Events
}

// AssertNameIs asserts that the span's name equals the expected name.
func (s *Span) AssertNameIs(expected string) {
	s.t.Helper()
	assert.Equal(s.t, expected, s.Stub.Name)
}

// AssertJSONAttrEquals asserts that a JSON-encoded attribute equals the expected value.
// The attribute value is expected to be a JSON string that will be unmarshaled and compared.
func (s *Span) AssertJSONAttrEquals(key string, expected any) {
	s.t.Helper()
	attrStr := s.Attr(key).String()
	var actual any
	err := json.Unmarshal([]byte(attrStr), &actual)
	require.NoError(s.t, err, "failed to unmarshal JSON attribute %s", key)
	assert.Equal(s.t, expected, actual, "attribute %s value mismatch", key)
}

// Attrs returns all the span's attributes matching the key.
func (s *Span) Attrs(key string) []Attr {
	attrs := []Attr{}
	for _, a := range s.Stub.Attributes {
		if string(a.Key) == key {
			attrs = append(attrs, Attr{t: s.t, Key: string(a.Key), Value: a.Value})
		}
	}
	return attrs
}

// Attr return the attribute matching the key and fails if there isn't
// exactly one.
func (s *Span) Attr(key string) Attr {
	s.t.Helper()
	attrs := s.Attrs(key)
	require.Len(s.t, attrs, 1)
	return attrs[0]
}

// HasAttr returns true if the span has at least one attribute with the given key.
func (s *Span) HasAttr(key string) bool {
	return len(s.Attrs(key)) > 0
}

// AssertTags asserts that the span has the expected tags.
// Tags are stored as an OTel StringSlice attribute.
func (s *Span) AssertTags(expected []string) {
	s.t.Helper()

	attrs := s.Attrs("verdict.tags")
	require.Len(s.t, attrs, 1, "expected exactly one verdict.tags attribute")

	value := attrs[0].Value
	require.Equal(s.t, attr.STRINGSLICE, value.Type(), "verdict.tags should be a string slice")

	actual := value.AsStringSlice()
	assert.Equal(s.t, expected, actual, "tags mismatch")
}

// Attr is a wrapper around the OTel Attribute with some helpful
// testing functions.
type Attr struct {
	t     *testing.T
	Key   string
	Value attr.Value
}

// String returns the attribute as a string and fails if the attribute is not a string.
func (a Attr) String() string {
	a.t.Helper()
	require.Equal(a.t, a.Value.Type(), attr.STRING)
	return a.Value.AsString()
}
