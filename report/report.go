// Package report aggregates evaluation run results into per-scorer summaries
// and renders them as tables or JSON.
package report

import (
	"sort"

	"github.com/verdictlabs/verdict-go/eval"
)

// Summary aggregates all scores a single scorer produced across a run.
type Summary struct {
	// Mean is the average over successful scores. Zero when Scored is zero.
	Mean float64 `json:"mean"`

	// Scored counts successful scores.
	Scored int `json:"scored"`

	// Failures counts failure scores.
	Failures int `json:"failures"`
}

// Summarize computes a per-scorer Summary over every record in the run.
// Failure scores count toward Failures and are excluded from the mean;
// they are never folded in as zeros.
func Summarize[I, R any](rr *eval.RunResult[I, R]) map[string]Summary {
	out := map[string]Summary{}
	for _, rec := range rr.Records {
		for _, s := range rec.Scores {
			summary := out[s.Name]
			if s.Failed() {
				summary.Failures++
			} else {
				summary.Mean += s.Score
				summary.Scored++
			}
			out[s.Name] = summary
		}
	}
	for name, summary := range out {
		if summary.Scored > 0 {
			summary.Mean /= float64(summary.Scored)
		}
		out[name] = summary
	}
	return out
}

// scorerNames returns the summary keys in stable order.
func scorerNames(summaries map[string]Summary) []string {
	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
