// Package verdict provides the core Verdict SDK for Go.
//
// Verdict is a harness for evaluating generative-model applications: you
// describe a set of labeled examples, a target function, and the evaluators
// to score it with, and the harness runs them and aggregates the results.
//
// # Main Packages
//
// For running evaluations, see the eval package.
//
// For ready-made evaluators such as length-ratio and judged correctness,
// see the autoevals package.
//
// For rendering run results, see the report package.
//
// # Configuration
//
// The SDK reads configuration from environment variables.
// See [config.FromEnv] for the complete list.
package verdict
