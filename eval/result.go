package eval

import (
	"fmt"
	"time"
)

// Observation is what the target produced for one example.
type Observation[R any] struct {
	// Output is the target's output. Zero when Err is set.
	Output R

	// Err is set when the target invocation failed or timed out.
	// It wraps ErrTarget. Scorers are skipped for failed observations.
	Err error
}

// Failed reports whether the target invocation failed for this example.
func (o Observation[R]) Failed() bool {
	return o.Err != nil
}

// Record is the full result for one example: the example itself, the
// observation the target produced, and one score per scorer (failure scores
// included).
type Record[I, R any] struct {
	seq int

	Example     Example[I, R]
	Observation Observation[R]
	Scores      Scores
}

// RunResult contains the results of one evaluation pass over all examples.
// Records are ordered by example traversal order. Every example yields
// exactly one record; failures are recorded in place, never omitted.
type RunResult[I, R any] struct {
	// Label identifies the run.
	Label string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Elapsed is how long the run took.
	Elapsed time.Duration

	// Records holds one entry per processed example, in traversal order.
	Records []Record[I, R]

	// Unprocessed counts examples the run never reached because it was
	// canceled mid-flight.
	Unprocessed int

	// Tags and Metadata are the run-level labels from Opts.
	Tags     []string
	Metadata Metadata
}

// FailureCount returns the total number of recorded failures: failed target
// invocations plus failure scores.
func (r *RunResult[I, R]) FailureCount() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Observation.Failed() {
			n++
		}
		for _, s := range rec.Scores {
			if s.Failed() {
				n++
			}
		}
	}
	return n
}

// String returns a string representation of the result for printing on the console.
//
// The format it prints will change and shouldn't be relied on for programmatic use.
func (r *RunResult[I, R]) String() string {
	lines := []string{
		"",
		fmt.Sprintf("=== Run: %s ===", r.Label),
		fmt.Sprintf("Examples: %d", len(r.Records)),
		fmt.Sprintf("Failures: %d", r.FailureCount()),
		fmt.Sprintf("Duration: %.1fs", r.Elapsed.Seconds()),
	}
	if r.Unprocessed > 0 {
		lines = append(lines, fmt.Sprintf("Unprocessed: %d", r.Unprocessed))
	}
	lines = append(lines, "")

	result := ""
	for i, line := range lines {
		if i > 0 {
			result += "\n"
		}
		result += line
	}
	return result
}
