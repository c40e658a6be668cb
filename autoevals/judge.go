package autoevals

import (
	"context"
	"fmt"
	"strings"

	"github.com/verdictlabs/verdict-go/eval"
	"github.com/verdictlabs/verdict-go/model"
)

// Verdict is the parsed outcome of a judge response.
type Verdict int

// Judge verdicts.
const (
	VerdictUnparseable Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

// Verdict tokens the judge is instructed to reply with.
const (
	verdictTokenCorrect   = "CORRECT"
	verdictTokenIncorrect = "INCORRECT"
)

const judgeSystemPrompt = `You are an impartial judge evaluating whether a candidate answer to a question is correct.

Compare the candidate answer against the reference answer. The candidate does not need to match word for word, but it must convey the same facts.

Respond with exactly one word: CORRECT or INCORRECT.`

// ParseVerdict classifies a raw judge response. The match is exact after
// trimming surrounding whitespace: anything other than the bare verdict
// tokens is Unparseable. Judges often wrap their verdict in extra prose or
// vary its casing; such responses are deliberately NOT coerced to a
// pass/fail result and surface as failures instead.
func ParseVerdict(raw string) Verdict {
	switch strings.TrimSpace(raw) {
	case verdictTokenCorrect:
		return VerdictCorrect
	case verdictTokenIncorrect:
		return VerdictIncorrect
	default:
		return VerdictUnparseable
	}
}

// JudgeOption configures a judged-correctness scorer.
type JudgeOption func(*judgeOptions)

type judgeOptions struct {
	inputField  string
	answerField string
}

// WithInputField sets the example input field holding the question.
// Defaults to "question".
func WithInputField(field string) JudgeOption {
	return func(o *judgeOptions) {
		o.inputField = field
	}
}

// WithAnswerField sets the output/expected field holding the answer.
// Defaults to "answer".
func WithAnswerField(field string) JudgeOption {
	return func(o *judgeOptions) {
		o.answerField = field
	}
}

// NewJudgedCorrectness creates a scorer that delegates to a generative model:
// it sends the question, the candidate answer, and the reference answer
// through a fixed rubric prompt and parses a binary verdict from the
// response. An unparseable verdict is recorded as a failure score, never
// silently treated as incorrect.
func NewJudgedCorrectness(completer model.Completer, opts ...JudgeOption) eval.Scorer[eval.Fields, eval.Fields] {
	options := judgeOptions{
		inputField:  "question",
		answerField: "answer",
	}
	for _, opt := range opts {
		opt(&options)
	}

	return eval.NewScorer("correctness", func(ctx context.Context, result eval.TargetResult[eval.Fields, eval.Fields]) (eval.Scores, error) {
		question, err := result.Input.String(options.inputField)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		candidate, err := result.Output.String(options.answerField)
		if err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
		reference, err := result.Expected.String(options.answerField)
		if err != nil {
			return nil, fmt.Errorf("expected: %w", err)
		}

		prompt := fmt.Sprintf(`Question:
%s

Candidate answer:
%s

Reference answer:
%s

Is the candidate answer correct? Reply with exactly one word: CORRECT or INCORRECT.`,
			question, candidate, reference)

		raw, err := completer.Complete(ctx, []model.Message{
			model.System(judgeSystemPrompt),
			model.User(prompt),
		})
		if err != nil {
			return nil, fmt.Errorf("judge call failed: %w", err)
		}

		switch ParseVerdict(raw) {
		case VerdictCorrect:
			return eval.Scores{{Score: 1, Rationale: raw}}, nil
		case VerdictIncorrect:
			return eval.Scores{{Score: 0, Rationale: raw}}, nil
		default:
			return nil, fmt.Errorf("unparseable judge verdict %q", raw)
		}
	})
}
