package autoevals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictlabs/verdict-go/eval"
	"github.com/verdictlabs/verdict-go/model"
)

func TestEquals(t *testing.T) {
	t.Parallel()

	scorer := NewEquals[string, string]()

	scores, err := scorer.Run(context.Background(), eval.TargetResult[string, string]{
		Expected: "4",
		Output:   "4",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, scores[0].Score)

	scores, err = scorer.Run(context.Background(), eval.TargetResult[string, string]{
		Expected: "4",
		Output:   "5",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, scores[0].Score)
}

func TestLessThan(t *testing.T) {
	t.Parallel()

	scorer := NewLessThan[string, int]()

	scores, err := scorer.Run(context.Background(), eval.TargetResult[string, int]{
		Expected: 3,
		Output:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, scores[0].Score)

	scores, err = scorer.Run(context.Background(), eval.TargetResult[string, int]{
		Expected: 5,
		Output:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, scores[0].Score)
}

// TestQABatchEvaluation runs the full harness over a small Q&A set with both
// packaged scorers, the way a chatbot regression suite would.
func TestQABatchEvaluation(t *testing.T) {
	t.Parallel()

	store := eval.NewStore[eval.Fields, eval.Fields]()
	qa := []struct {
		id       string
		question string
		answer   string
	}{
		{"q1", "Which company makes the H100 GPU?", "NVIDIA"},
		{"q2", "Which company makes the MI300 accelerator?", "AMD"},
		{"q3", "Who is the CEO of NVIDIA?", "Jensen Huang"},
		{"q4", "Who is the CEO of AMD?", "Lisa Su"},
		{"q5", "What architecture do H100 GPUs use?", "Hopper"},
	}
	for _, c := range qa {
		_, err := store.Add(eval.Example[eval.Fields, eval.Fields]{
			ID:       c.id,
			Input:    eval.Fields{"question": c.question},
			Expected: eval.Fields{"answer": c.answer},
		})
		require.NoError(t, err)
	}

	// A lazy target that always answers "N/A" (3 chars). Conciseness passes
	// only where 3 < 2x the reference length, correctness never does.
	target := eval.T(func(ctx context.Context, input eval.Fields) (eval.Fields, error) {
		return eval.Fields{"answer": "N/A"}, nil
	})

	judge := model.NewMock("INCORRECT")
	scorers := []eval.Scorer[eval.Fields, eval.Fields]{
		NewLengthRatio("answer", 2.0),
		NewJudgedCorrectness(judge),
	}

	result, err := eval.Run(context.Background(), eval.Opts[eval.Fields, eval.Fields]{
		RunLabel: "qa-batch",
		Examples: store.Examples(),
		Target:   target,
		Scorers:  scorers,
		Quiet:    true,
	})
	require.NoError(t, err)

	// 5 observations, 5 x 2 scores.
	require.Len(t, result.Records, 5)
	totalScores := 0
	for _, rec := range result.Records {
		require.False(t, rec.Observation.Failed())
		totalScores += len(rec.Scores)
	}
	assert.Equal(t, 10, totalScores)

	// "N/A" is 3 chars and the shortest reference ("AMD") is 3 chars, so
	// 3 < 2*len holds for every example: conciseness passes across the board
	// while the judge marks everything incorrect.
	for i, rec := range result.Records {
		assert.Equal(t, 1.0, rec.Scores[0].Score, "length_ratio for %s", qa[i].id)
		assert.Equal(t, 0.0, rec.Scores[1].Score, "correctness for %s", qa[i].id)
	}
}
