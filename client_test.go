package verdict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/verdictlabs/verdict-go/api"
	"github.com/verdictlabs/verdict-go/eval"
	intlogger "github.com/verdictlabs/verdict-go/internal/logger"
)

func TestNew_WithMinimalConfig(t *testing.T) {
	t.Parallel()

	tp := trace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	client, err := New(tp,
		WithProject("test-project"),
		WithLogger(intlogger.NewFailTestLogger(t)),
	)
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.Equal(t, tp, client.TracerProvider())

	tracer := client.Tracer("test-tracer")
	require.NotNil(t, tracer)
	ctx, span := tracer.Start(context.Background(), "test-span")
	span.End()
	assert.NotNil(t, ctx)

	str := client.String()
	assert.Contains(t, str, "test-project")
	assert.Contains(t, str, "Verdict Client")
}

func TestNew_RequiresTracerProvider(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)
}

func TestRunner_RunWithoutAPIKey(t *testing.T) {
	t.Parallel()

	tp := trace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	client, err := New(tp,
		WithAPIKey(""),
		WithParallelism(2),
		WithLogger(intlogger.NewFailTestLogger(t)),
	)
	require.NoError(t, err)

	runner := NewRunner[string, string](client)

	result, err := runner.Run(context.Background(), eval.Opts[string, string]{
		RunLabel: "local-run",
		Examples: eval.NewExamples([]eval.Example[string, string]{
			{Input: "a", Expected: "A"},
			{Input: "b", Expected: "B"},
		}),
		Target: eval.T(func(ctx context.Context, input string) (string, error) {
			return input, nil
		}),
		Quiet: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
}

func TestRunner_RunPublishesSummary(t *testing.T) {
	t.Parallel()

	var gotSummary api.RunSummary
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/project":
			_, _ = w.Write([]byte(`{"id": "p-1", "name": "chatbot"}`))
		case "/v1/run":
			_, _ = w.Write([]byte(`{"id": "r-1", "label": "remote-run", "project_id": "p-1"}`))
		case "/v1/run/r-1/summary":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotSummary))
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	tp := trace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	client, err := New(tp,
		WithAPIKey("test-key"),
		WithAPIURL(server.URL),
		WithProject("chatbot"),
		WithLogger(intlogger.NewFailTestLogger(t)),
	)
	require.NoError(t, err)

	runner := NewRunner[string, string](client)

	scorer := eval.NewScorer("exact", func(ctx context.Context, result eval.TargetResult[string, string]) (eval.Scores, error) {
		if result.Output == result.Expected {
			return eval.S(1), nil
		}
		return eval.S(0), nil
	})

	result, err := runner.Run(context.Background(), eval.Opts[string, string]{
		RunLabel: "remote-run",
		Examples: eval.NewExamples([]eval.Example[string, string]{
			{Input: "a", Expected: "a"},
			{Input: "b", Expected: "B"},
		}),
		Target: eval.T(func(ctx context.Context, input string) (string, error) {
			return input, nil
		}),
		Scorers: []eval.Scorer[string, string]{scorer},
		Quiet:   true,
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "remote-run", gotSummary.Label)
	assert.Equal(t, 2, gotSummary.Examples)
	require.Contains(t, gotSummary.Scores, "exact")
	assert.InDelta(t, 0.5, gotSummary.Scores["exact"].Mean, 1e-9)
	assert.Equal(t, 2, gotSummary.Scores["exact"].Scored)
}

func TestClient_API(t *testing.T) {
	t.Parallel()

	tp := trace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	client, err := New(tp,
		WithAPIKey("test-key"),
		WithLogger(intlogger.NewFailTestLogger(t)),
	)
	require.NoError(t, err)

	apiClient := client.API()
	require.NotNil(t, apiClient)
	assert.NotNil(t, apiClient.Projects())
	assert.NotNil(t, apiClient.Datasets())
	assert.NotNil(t, apiClient.Runs())
}
