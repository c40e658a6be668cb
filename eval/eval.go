// Package eval provides a harness for evaluating LLM applications. It runs a
// target function over a set of labeled examples, scores every output with
// one or more scorers, and collects per-example results into a RunResult.
//
// Failures never abort a run: a failed target invocation is recorded as a
// failure observation (with scoring skipped for that example) and a failed
// scorer is recorded as a failure score, so a completed run always accounts
// for every example and every scorer.
package eval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var (
	// Exported error kinds. Recorded failures wrap one of these; use
	// errors.Is to classify them.

	// ErrDuplicateID reports an example ID collision in a Store.
	ErrDuplicateID = errors.New("duplicate example id")
	// ErrTarget reports a failed or timed-out target invocation.
	ErrTarget = errors.New("target invocation error")
	// ErrScorer reports a failed or timed-out scorer invocation.
	ErrScorer = errors.New("evaluator invocation error")
	// ErrSchema reports an example missing a field a target or scorer requires.
	ErrSchema = errors.New("schema error")
)

var (
	// Private error variables (users don't need to check these)
	errRun      = errors.New("eval run error")
	errIterator = errors.New("example iterator error")
)

var (
	// "span_attributes" for each type of eval span.
	evalSpanAttrs   = map[string]any{"type": "eval"}
	targetSpanAttrs = map[string]any{"type": "target"}
	scoreSpanAttrs  = map[string]any{"type": "score"}
)

// defaultTimeout bounds a single target or scorer invocation when Opts.Timeout
// is left zero. Targets and scorers usually block on network calls, so a hung
// call must surface as a failure rather than stall the run.
const defaultTimeout = 60 * time.Second

// Opts defines the options for running an evaluation.
// I is the input type and R is the result/output type.
type Opts[I, R any] struct {
	// RunLabel names this run in results and reports.
	// Required.
	RunLabel string

	// Examples is an iterator over the labeled examples to evaluate.
	// Required. Use Store.Examples() or NewExamples.
	Examples Examples[I, R]

	// Target is the function under evaluation, invoked once per example.
	// Required.
	Target TargetFunc[I, R]

	// Scorers are the scoring functions to apply to each example result.
	// Optional. If empty, no scoring is performed.
	Scorers []Scorer[I, R]

	// Tags are labels to attach to the run.
	// Optional.
	Tags []string

	// Metadata is additional metadata to attach to the run.
	// Optional.
	Metadata Metadata

	// Parallelism controls the number of goroutines to use for parallel execution.
	// Optional. Defaults to 1 (sequential execution).
	// Set to a value > 1 to enable parallel example evaluation.
	Parallelism int

	// Timeout bounds each target and scorer invocation. A timed-out
	// invocation is recorded as a failure.
	// Optional. Defaults to 60s. Set to a negative value to disable.
	Timeout time.Duration

	// Quiet controls whether to suppress printing the result summary.
	// Optional. Defaults to false (summary is printed).
	Quiet bool
}

// Run executes an evaluation and returns its RunResult.
//
// Per-example failures are recorded in the RunResult, not returned: the error
// return carries run-level problems only (a broken example iterator, span
// encoding failures). Running twice with identical inputs and deterministic
// functions yields identical RunResults except for timestamps.
func Run[I, R any](ctx context.Context, opts Opts[I, R]) (*RunResult[I, R], error) {
	r, err := newRunner(opts, otel.GetTracerProvider().Tracer("verdict.eval"))
	if err != nil {
		return nil, err
	}
	return r.run(ctx)
}

// RunWith is like Run but uses the provided TracerProvider instead of the
// global one.
func RunWith[I, R any](ctx context.Context, opts Opts[I, R], tp *sdktrace.TracerProvider) (*RunResult[I, R], error) {
	r, err := newRunner(opts, tp.Tracer("verdict.eval"))
	if err != nil {
		return nil, err
	}
	return r.run(ctx)
}

// runner (private) is the execution engine for evaluations.
type runner[I, R any] struct {
	label        string
	examples     Examples[I, R]
	target       TargetFunc[I, R]
	scorers      []Scorer[I, R]
	tags         []string
	metadata     Metadata
	tracer       oteltrace.Tracer
	startSpanOpt oteltrace.SpanStartOption
	goroutines   int
	timeout      time.Duration
	quiet        bool
}

// queued is a wrapper for sending examples through a channel.
type queued[I, R any] struct {
	seq int
	ex  Example[I, R]
}

func newRunner[I, R any](opts Opts[I, R], tracer oteltrace.Tracer) (*runner[I, R], error) {
	if opts.RunLabel == "" {
		return nil, fmt.Errorf("%w: RunLabel is required", errRun)
	}
	if opts.Examples == nil {
		return nil, fmt.Errorf("%w: Examples is required", errRun)
	}
	if opts.Target == nil {
		return nil, fmt.Errorf("%w: Target is required", errRun)
	}

	goroutines := opts.Parallelism
	if goroutines < 1 {
		goroutines = 1
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	startSpanOpt := oteltrace.WithAttributes(attribute.String("verdict.run_label", opts.RunLabel))

	return &runner[I, R]{
		label:        opts.RunLabel,
		examples:     opts.Examples,
		target:       opts.Target,
		scorers:      opts.Scorers,
		tags:         opts.Tags,
		metadata:     opts.Metadata,
		tracer:       tracer,
		startSpanOpt: startSpanOpt,
		goroutines:   goroutines,
		timeout:      timeout,
		quiet:        opts.Quiet,
	}, nil
}

// run executes the evaluation with parallelism support.
func (r *runner[I, R]) run(ctx context.Context) (*RunResult[I, R], error) {
	startedAt := time.Now()

	// Scale buffer size with parallelism to avoid blocking, but cap at 100
	bufferSize := minInt(r.goroutines*2, 100)
	queue := make(chan queued[I, R], bufferSize)
	var records lockedRecords[I, R]
	var errs lockedErrors
	var skipped lockedCounter

	// Spawn our goroutines to run the examples.
	var wg sync.WaitGroup
	for i := 0; i < r.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case q, ok := <-queue:
					if !ok {
						return
					}
					rec, err := r.runQueued(ctx, q)
					// A record can arrive together with an error (span
					// encoding failures); it is still a completed example
					// and must be kept.
					if rec != nil {
						records.append(*rec)
					} else if err == nil {
						// canceled while this example was in flight
						skipped.add(1)
					}
					if err != nil {
						errs.append(err)
					}
				}
			}
		}()
	}

	// Feed the queue. An iterator error stops the feed; already-queued
	// examples still run.
	canceled := false
	seq := 0
feed:
	for {
		ex, err := r.examples.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs.append(fmt.Errorf("%w: %w", errIterator, err))
			break
		}
		select {
		case <-ctx.Done():
			canceled = true
			skipped.add(1) // the example we just pulled never ran
			break feed
		case queue <- queued[I, R]{seq: seq, ex: ex}:
			seq++
		}
	}
	close(queue)

	// Wait for all the goroutines to finish.
	wg.Wait()

	// On cancellation, count everything the run never reached: examples
	// stranded in the queue plus whatever the iterator still holds.
	if canceled || ctx.Err() != nil {
		for range queue {
			skipped.add(1)
		}
		for {
			if _, err := r.examples.Next(); err != nil {
				break
			}
			skipped.add(1)
		}
	}

	// Workers append out of order under parallelism; restore traversal order.
	recs := records.get()
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	result := &RunResult[I, R]{
		Label:       r.label,
		StartedAt:   startedAt,
		Elapsed:     time.Since(startedAt),
		Records:     recs,
		Unprocessed: skipped.get(),
		Tags:        r.tags,
		Metadata:    r.metadata,
	}

	err := errors.Join(errs.get()...)

	// Print result summary unless quiet
	if !r.quiet {
		fmt.Println(result.String())
	}

	return result, err
}

// runQueued handles a single example from the channel.
func (r *runner[I, R]) runQueued(ctx context.Context, q queued[I, R]) (*Record[I, R], error) {
	ctx, span := r.tracer.Start(ctx, "eval", r.startSpanOpt)
	defer span.End()

	return r.runExample(ctx, span, q)
}

// runExample orchestrates target + scorers for one example. It returns a nil
// record (and nil error) when the run was canceled before the example
// finished, so partial results are never recorded.
func (r *runner[I, R]) runExample(ctx context.Context, span oteltrace.Span, q queued[I, R]) (*Record[I, R], error) {
	ex := q.ex
	if ex.Tags != nil {
		span.SetAttributes(attribute.StringSlice("verdict.tags", ex.Tags))
	}

	rec := &Record[I, R]{seq: q.seq, Example: ex}

	obs, encErr := r.runTarget(ctx, span, ex)
	if ctx.Err() == context.Canceled {
		return nil, nil
	}
	rec.Observation = obs
	if obs.Failed() {
		// Failure observation recorded; scorers are skipped for this example.
		span.SetStatus(codes.Error, obs.Err.Error())
		return rec, encErr
	}

	scores, scoreErr := r.runScorers(ctx, ex, obs.Output)
	if ctx.Err() == context.Canceled {
		return nil, nil
	}
	rec.Scores = scores

	meta := map[string]any{
		"verdict.span_attributes": evalSpanAttrs,
		"verdict.input_json":      ex.Input,
		"verdict.output_json":     obs.Output,
		"verdict.expected":        ex.Expected,
	}
	if ex.Metadata != nil {
		meta["verdict.metadata"] = ex.Metadata
	}
	return rec, errors.Join(encErr, scoreErr, setJSONAttrs(span, meta))
}

// runTarget invokes the target function and creates a target span. The
// returned error covers span encoding only; target failures land in the
// Observation.
func (r *runner[I, R]) runTarget(ctx context.Context, evalSpan oteltrace.Span, ex Example[I, R]) (Observation[R], error) {
	ctx, targetSpan := r.tracer.Start(ctx, "target", r.startSpanOpt)
	defer targetSpan.End()

	attrs := map[string]any{
		"verdict.input_json":      ex.Input,
		"verdict.expected":        ex.Expected,
		"verdict.span_attributes": targetSpanAttrs,
	}

	var encodeErrs []error
	for key, value := range attrs {
		if err := setJSONAttr(targetSpan, key, value); err != nil {
			encodeErrs = append(encodeErrs, err)
		}
	}

	hooks := &TargetHooks{
		Expected:   ex.Expected,
		Metadata:   ex.Metadata,
		Tags:       ex.Tags,
		TargetSpan: targetSpan,
		EvalSpan:   evalSpan,
	}

	tctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	output, err := r.target(tctx, ex.Input, hooks)
	if err != nil {
		// if the target fails, don't worry about the encode errors....
		targetErr := fmt.Errorf("%w: %w", ErrTarget, err)
		recordSpanError(targetSpan, targetErr)
		var zero R
		return Observation[R]{Output: zero, Err: targetErr}, nil
	}

	result := output.Value
	if err := setJSONAttr(targetSpan, "verdict.output_json", result); err != nil {
		encodeErrs = append(encodeErrs, err)
	}

	return Observation[R]{Output: result}, errors.Join(encodeErrs...)
}

// runScorers executes all scorers independently and creates a score span.
// A scorer failure becomes a failure score; it never blocks the other scorers.
func (r *runner[I, R]) runScorers(ctx context.Context, ex Example[I, R], output R) (Scores, error) {
	ctx, span := r.tracer.Start(ctx, "score", r.startSpanOpt)
	defer span.End()

	if err := setJSONAttr(span, "verdict.span_attributes", scoreSpanAttrs); err != nil {
		return nil, err
	}

	targetResult := TargetResult[I, R]{
		Input:    ex.Input,
		Expected: ex.Expected,
		Output:   output,
		Metadata: ex.Metadata,
	}

	var scores Scores
	for _, scorer := range r.scorers {
		curScores, err := r.runScorer(ctx, scorer, targetResult)
		if err == nil && len(curScores) == 0 {
			err = errors.New("scorer returned no scores")
		}
		if err != nil {
			werr := fmt.Errorf("%w: scorer %q failed: %w", ErrScorer, scorer.Name(), err)
			recordSpanError(span, werr)
			scores = append(scores, Score{Name: scorer.Name(), Err: werr})
			continue
		}
		for _, score := range curScores {
			if score.Name == "" {
				score.Name = scorer.Name()
			}
			scores = append(scores, score)
		}
	}

	// Build scores map (name -> score value), successful scores only.
	valsByName := make(map[string]float64, len(scores))
	for _, score := range scores {
		if score.Failed() {
			continue
		}
		valsByName[score.Name] = score.Score
	}

	if err := setJSONAttr(span, "verdict.scores", valsByName); err != nil {
		return scores, err
	}

	// Build metadata and output attributes. A single score is flattened to
	// the top level, multiple scores keep the nested structure.
	metadata := make(map[string]any, len(scores))
	spanOutput := make(map[string]any, len(scores))

	for _, score := range scores {
		if score.Failed() {
			continue
		}
		if score.Metadata != nil {
			metadata[score.Name] = score.Metadata
		}
		spanOutput[score.Name] = map[string]any{"score": score.Score}
	}

	if len(spanOutput) == 1 {
		for name := range spanOutput {
			if md, ok := metadata[name]; ok {
				if err := setJSONAttr(span, "verdict.metadata", md); err != nil {
					return scores, err
				}
			}
			if err := setJSONAttr(span, "verdict.output", spanOutput[name]); err != nil {
				return scores, err
			}
		}
	} else if len(spanOutput) > 1 {
		if len(metadata) > 0 {
			if err := setJSONAttr(span, "verdict.metadata", metadata); err != nil {
				return scores, err
			}
		}
		if err := setJSONAttr(span, "verdict.output", spanOutput); err != nil {
			return scores, err
		}
	}

	return scores, nil
}

// runScorer invokes a single scorer with the per-invocation timeout applied.
func (r *runner[I, R]) runScorer(ctx context.Context, scorer Scorer[I, R], result TargetResult[I, R]) (Scores, error) {
	sctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return scorer.Run(sctx, result)
}

// Helper functions

func setJSONAttrs(span oteltrace.Span, attrs map[string]any) error {
	for key, value := range attrs {
		if err := setJSONAttr(span, key, value); err != nil {
			return err
		}
	}
	return nil
}

func setJSONAttr(span oteltrace.Span, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String(key, string(b)))
	return nil
}

func recordSpanError(span oteltrace.Span, err error) {
	// hardcode the error type when we know what it is. by default otel would
	// show *fmt.wrapErrors as the type, which isn't super nice to look at.
	// this keeps errors working with errors.Is() while showing a readable
	// type in trace viewers.
	var errType string
	switch {
	case errors.Is(err, ErrScorer):
		errType = "ErrScorer"
	case errors.Is(err, ErrTarget):
		errType = "ErrTarget"
	case errors.Is(err, ErrSchema):
		errType = "ErrSchema"
	case errors.Is(err, errIterator):
		errType = "ErrExampleIterator"
	case errors.Is(err, errRun):
		errType = "ErrRun"
	default:
		errType = fmt.Sprintf("%T", err)
	}

	span.AddEvent("exception", oteltrace.WithAttributes(
		attribute.String("exception.type", errType),
		attribute.String("exception.message", err.Error()),
	))
	span.SetStatus(codes.Error, err.Error())
}

// lockedRecords is a thread-safe list of records.
type lockedRecords[I, R any] struct {
	mu   sync.Mutex
	recs []Record[I, R]
}

func (l *lockedRecords[I, R]) append(rec Record[I, R]) {
	l.mu.Lock()
	l.recs = append(l.recs, rec)
	l.mu.Unlock()
}

func (l *lockedRecords[I, R]) get() []Record[I, R] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recs
}

// lockedErrors is a thread-safe list of errors.
type lockedErrors struct {
	mu   sync.Mutex
	errs []error
}

func (e *lockedErrors) append(err error) {
	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()
}

func (e *lockedErrors) get() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errs
}

// lockedCounter is a thread-safe counter.
type lockedCounter struct {
	mu sync.Mutex
	n  int
}

func (c *lockedCounter) add(n int) {
	c.mu.Lock()
	c.n += n
	c.mu.Unlock()
}

func (c *lockedCounter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// minInt returns the minimum of two integers (Go 1.21+ has this in stdlib)
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// testNewRunner creates a runner for unit testing with an injected tracer.
func testNewRunner[I, R any](
	tracer oteltrace.Tracer,
	label string,
	examples Examples[I, R],
	target TargetFunc[I, R],
	scorers []Scorer[I, R],
	parallelism int,
	timeout time.Duration,
) *runner[I, R] {
	goroutines := parallelism
	if goroutines < 1 {
		goroutines = 1
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	startSpanOpt := oteltrace.WithAttributes(attribute.String("verdict.run_label", label))

	return &runner[I, R]{
		label:        label,
		examples:     examples,
		target:       target,
		scorers:      scorers,
		tracer:       tracer,
		startSpanOpt: startSpanOpt,
		goroutines:   goroutines,
		timeout:      timeout,
		quiet:        true,
	}
}
