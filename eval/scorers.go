package eval

import (
	"context"
)

// Scorer is an interface for scoring the output of a target invocation.
type Scorer[I, R any] interface {
	// Name returns the name of this scorer.
	Name() string
	// Run evaluates the target result.
	// It returns one or more Score results.
	Run(ctx context.Context, result TargetResult[I, R]) (Scores, error)
}

// Score represents a single score result.
type Score struct {
	// Name is the name of the score (e.g., "conciseness", "correctness").
	Name string

	// Score is the numeric score value. Boolean scorers report 1 or 0.
	Score float64

	// Rationale is optional free text explaining the score.
	Rationale string

	// Metadata is optional additional metadata for this score.
	Metadata map[string]interface{}

	// Err is set when the scorer failed for this example. A failure score
	// is recorded in place of a missing entry, never silently omitted.
	// It wraps ErrScorer.
	Err error
}

// Failed reports whether this is a failure score.
func (s Score) Failed() bool {
	return s.Err != nil
}

// Scores is a collection of Score results returned by scorers.
type Scores = []Score

// S is a helper function to concisely return a single score from scorers.
// Scores created with S will default to the name of the scorer that creates them.
// S(0.5) is equivalent to Scores{{Score: 0.5}}.
func S(score float64) Scores {
	return Scores{{Name: "", Score: score}}
}

// ScoreFunc is a function that evaluates a target result and returns a list of Scores.
type ScoreFunc[I, R any] func(ctx context.Context, result TargetResult[I, R]) (Scores, error)

// NewScorer creates a new scorer with the given name and score function.
func NewScorer[I, R any](name string, scoreFunc ScoreFunc[I, R]) Scorer[I, R] {
	return &scorerImpl[I, R]{
		name:      name,
		scoreFunc: scoreFunc,
	}
}

type scorerImpl[I, R any] struct {
	name      string
	scoreFunc ScoreFunc[I, R]
}

func (s *scorerImpl[I, R]) Name() string {
	return s.name
}

func (s *scorerImpl[I, R]) Run(ctx context.Context, result TargetResult[I, R]) (Scores, error) {
	return s.scoreFunc(ctx, result)
}
