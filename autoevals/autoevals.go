// Package autoevals provides ready-made scorers for evaluating AI model outputs.
package autoevals

import (
	"context"

	"golang.org/x/exp/constraints"

	"github.com/verdictlabs/verdict-go/eval"
)

// NewEquals creates a scorer that returns 1.0 when the output equals the
// expected value, 0.0 otherwise.
//
// Example:
//
//	equals := autoevals.NewEquals[string, string]()
func NewEquals[I any, R comparable]() eval.Scorer[I, R] {
	return eval.NewScorer("Equals", func(_ context.Context, result eval.TargetResult[I, R]) (eval.Scores, error) {
		if result.Expected == result.Output {
			return eval.S(1), nil
		}
		return eval.S(0), nil
	})
}

// NewLessThan creates a scorer that returns 1.0 when expected < output, 0.0 otherwise.
//
// Example:
//
//	lessThan := autoevals.NewLessThan[string, float64]()
func NewLessThan[I any, R constraints.Ordered]() eval.Scorer[I, R] {
	return eval.NewScorer("LessThan", func(_ context.Context, result eval.TargetResult[I, R]) (eval.Scores, error) {
		if result.Expected < result.Output {
			return eval.S(1), nil
		}
		return eval.S(0), nil
	})
}
