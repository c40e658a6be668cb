package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", WithAPIURL(server.URL))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient("")
	require.Error(t, err)
}

func TestProjectsRegister(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/project", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "chatbot", body["name"])

		_, _ = w.Write([]byte(`{"id": "p-1", "name": "chatbot"}`))
	}))

	project, err := client.Projects().Register(context.Background(), "chatbot")
	require.NoError(t, err)
	assert.Equal(t, "p-1", project.ID)
	assert.Equal(t, "chatbot", project.Name)

	_, err = client.Projects().Register(context.Background(), "")
	require.Error(t, err)
}

func TestRunsRegisterAndLogSummary(t *testing.T) {
	t.Parallel()

	var gotSummary RunSummary
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/run":
			var req RunRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "nightly", req.Label)
			assert.Equal(t, "p-1", req.ProjectID)
			_, _ = w.Write([]byte(`{"id": "r-1", "label": "nightly", "project_id": "p-1"}`))
		case "/v1/run/r-1/summary":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotSummary))
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))

	run, err := client.Runs().Register(context.Background(), "nightly", "p-1", []string{"ci"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "r-1", run.ID)

	summary := RunSummary{
		Label:       "nightly",
		StartedAt:   time.Now(),
		DurationSec: 2.5,
		Examples:    5,
		Failures:    1,
		Scores: map[string]ScoreSummary{
			"correctness": {Mean: 0.8, Scored: 5},
		},
	}
	require.NoError(t, client.Runs().LogSummary(context.Background(), "r-1", summary))

	assert.Equal(t, 5, gotSummary.Examples)
	assert.InDelta(t, 0.8, gotSummary.Scores["correctness"].Mean, 1e-9)
}

func TestRunsValidation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.Runs().Register(context.Background(), "", "p-1", nil, nil)
	require.Error(t, err)

	_, err = client.Runs().Register(context.Background(), "nightly", "", nil, nil)
	require.Error(t, err)

	err = client.Runs().LogSummary(context.Background(), "", RunSummary{})
	require.Error(t, err)
}

func TestErrorStatusSurfaces(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such project", http.StatusNotFound)
	}))

	_, err := client.Projects().Register(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDatasetsCreateInsertFetch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/dataset":
			_, _ = w.Write([]byte(`{"id": "ds-1", "project_id": "p-1", "name": "golden"}`))
		case "/v1/dataset/ds-1/insert":
			w.WriteHeader(http.StatusOK)
		case "/v1/dataset/ds-1/fetch":
			assert.Equal(t, "2", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"events": [{"id": "e1"}], "cursor": ""}`))
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))

	ds, err := client.Datasets().Create(context.Background(), DatasetRequest{ProjectID: "p-1", Name: "golden"})
	require.NoError(t, err)
	assert.Equal(t, "ds-1", ds.ID)

	err = client.Datasets().Insert(context.Background(), "ds-1", []DatasetEvent{{ID: "e1", Input: "q"}})
	require.NoError(t, err)

	page, err := client.Datasets().Fetch(context.Background(), "ds-1", "", 2)
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "", page.Cursor)

	_, err = client.Datasets().Fetch(context.Background(), "", "", 2)
	require.Error(t, err)
}
