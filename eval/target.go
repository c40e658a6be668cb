package eval

import (
	"context"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// TargetFunc is the signature for the function under evaluation.
// It receives the input, hooks for accessing eval context, and returns a TargetOutput.
type TargetFunc[I, R any] func(ctx context.Context, input I, hooks *TargetHooks) (TargetOutput[R], error)

// TargetHooks provides access to evaluation context within a target invocation.
// All fields are read-only except for span modification.
type TargetHooks struct {
	Expected   any            // Expected output (type-assert when needed)
	Metadata   Metadata       // Example metadata (read-only)
	Tags       []string       // Example tags (read-only)
	TargetSpan oteltrace.Span // Current target execution span (can modify)
	EvalSpan   oteltrace.Span // Parent example/eval span (can modify)
}

// TargetOutput wraps the output value from a target invocation.
// Future fields may include metadata, skip flags, etc.
type TargetOutput[R any] struct {
	Value R
}

// TargetResult represents the complete result of invoking the target on an example.
// This is passed to scorers for evaluation.
type TargetResult[I, R any] struct {
	Input    I        // The example input
	Expected R        // What we expected
	Output   R        // What the target actually returned
	Metadata Metadata // Example metadata
}

// T is a simple adapter that converts a basic target function into a TargetFunc.
// Use this when you don't need access to TargetHooks.
func T[I, R any](fn func(ctx context.Context, input I) (R, error)) TargetFunc[I, R] {
	return func(ctx context.Context, input I, hooks *TargetHooks) (TargetOutput[R], error) {
		val, err := fn(ctx, input)
		return TargetOutput[R]{Value: val}, err
	}
}
