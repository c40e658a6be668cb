package autoevals

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/verdictlabs/verdict-go/eval"
)

// DefaultLengthRatio is the ratio limit used when NewLengthRatio is given a
// non-positive one.
const DefaultLengthRatio = 2.0

// NewLengthRatio creates a conciseness scorer over named-field examples. It
// scores 1.0 when the output's field is strictly shorter than ratio times the
// expected field's character length, 0.0 otherwise. It is pure and
// deterministic and makes no external calls.
//
// A missing or non-string field is a schema failure, recorded as a failure
// score by the harness.
func NewLengthRatio(field string, ratio float64) eval.Scorer[eval.Fields, eval.Fields] {
	if ratio <= 0 {
		ratio = DefaultLengthRatio
	}

	return eval.NewScorer("length_ratio", func(_ context.Context, result eval.TargetResult[eval.Fields, eval.Fields]) (eval.Scores, error) {
		output, err := result.Output.String(field)
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		expected, err := result.Expected.String(field)
		if err != nil {
			return nil, fmt.Errorf("expected: %w", err)
		}

		outputLen := utf8.RuneCountInString(output)
		expectedLen := utf8.RuneCountInString(expected)

		// strictly less than: an output exactly ratio times as long fails
		score := 0.0
		if float64(outputLen) < ratio*float64(expectedLen) {
			score = 1.0
		}

		return eval.Scores{{
			Score:     score,
			Rationale: fmt.Sprintf("output %d chars, expected %d chars, limit %.3gx", outputLen, expectedLen, ratio),
		}}, nil
	})
}
