package report

import (
	"encoding/json"
	"io"

	"github.com/verdictlabs/verdict-go/eval"
)

// jsonReport is the serialized shape of a run summary.
type jsonReport struct {
	Label       string             `json:"label"`
	Examples    int                `json:"examples"`
	Failures    int                `json:"failures"`
	Unprocessed int                `json:"unprocessed,omitempty"`
	DurationSec float64            `json:"duration_sec"`
	Scores      map[string]Summary `json:"scores"`
}

// WriteJSON writes the run's per-scorer summaries as a single indented JSON
// object. Means are emitted at full float precision; rounding is a display
// concern left to consumers.
func WriteJSON[I, R any](w io.Writer, rr *eval.RunResult[I, R]) error {
	rep := jsonReport{
		Label:       rr.Label,
		Examples:    len(rr.Records),
		Failures:    rr.FailureCount(),
		Unprocessed: rr.Unprocessed,
		DurationSec: rr.Elapsed.Seconds(),
		Scores:      Summarize(rr),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
