package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictlabs/verdict-go/api"
)

type qaInput struct {
	Question string `json:"question"`
}

type qaOutput struct {
	Answer string `json:"answer"`
}

func newTestAPI(t *testing.T, handler http.Handler) *api.API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient("test-key", api.WithAPIURL(server.URL))
	require.NoError(t, err)
	return client
}

func fetchPage(events []map[string]any, cursor string) []byte {
	raw := make([]json.RawMessage, len(events))
	for i, e := range events {
		b, _ := json.Marshal(e)
		raw[i] = b
	}
	body, _ := json.Marshal(map[string]any{"events": raw, "cursor": cursor})
	return body
}

func TestDatasetAPI_GetPaginates(t *testing.T) {
	t.Parallel()

	pages := [][]byte{
		fetchPage([]map[string]any{
			{"id": "e1", "input": map[string]any{"question": "q1"}, "expected": map[string]any{"answer": "a1"}, "tags": []string{"smoke"}},
			{"id": "e2", "input": map[string]any{"question": "q2"}, "expected": map[string]any{"answer": "a2"}},
		}, "cursor-1"),
		fetchPage([]map[string]any{
			{"id": "e3", "input": map[string]any{"question": "q3"}, "expected": map[string]any{"answer": "a3"}},
		}, ""),
	}

	var requests []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/dataset/ds-1/fetch", r.URL.Path)
		requests = append(requests, r.URL.Query().Get("cursor"))

		page := pages[0]
		if r.URL.Query().Get("cursor") == "cursor-1" {
			page = pages[1]
		}
		_, _ = w.Write(page)
	})

	datasets := NewDatasetAPI[qaInput, qaOutput](newTestAPI(t, handler))

	examples, err := datasets.Get(context.Background(), "ds-1")
	require.NoError(t, err)

	var got []Example[qaInput, qaOutput]
	for {
		ex, err := examples.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, ex)
	}

	require.Len(t, got, 3)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "q1", got[0].Input.Question)
	assert.Equal(t, "a1", got[0].Expected.Answer)
	assert.Equal(t, []string{"smoke"}, got[0].Tags)
	assert.Equal(t, "e3", got[2].ID)

	// Second page was requested with the cursor from the first.
	assert.Equal(t, []string{"", "cursor-1"}, requests)
}

func TestDatasetAPI_GetRequiresID(t *testing.T) {
	t.Parallel()

	datasets := NewDatasetAPI[qaInput, qaOutput](newTestAPI(t, http.NotFoundHandler()))

	_, err := datasets.Get(context.Background(), "")
	require.Error(t, err)
}

func TestDatasetAPI_QueryByName(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/dataset":
			assert.Equal(t, "golden-set", r.URL.Query().Get("dataset_name"))
			_, _ = fmt.Fprint(w, `{"objects": [{"id": "ds-9", "project_id": "p-1", "name": "golden-set"}]}`)
		case "/v1/dataset/ds-9/fetch":
			_, _ = w.Write(fetchPage([]map[string]any{
				{"id": "e1", "input": map[string]any{"question": "q1"}, "expected": map[string]any{"answer": "a1"}},
			}, ""))
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	})

	datasets := NewDatasetAPI[qaInput, qaOutput](newTestAPI(t, handler))

	examples, err := datasets.Query(context.Background(), DatasetQueryOpts{Name: "golden-set"})
	require.NoError(t, err)

	ex, err := examples.Next()
	require.NoError(t, err)
	assert.Equal(t, "e1", ex.ID)

	_, err = examples.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDatasetAPI_QueryLimit(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(fetchPage([]map[string]any{
			{"id": "e1", "input": map[string]any{"question": "q1"}},
			{"id": "e2", "input": map[string]any{"question": "q2"}},
		}, "more"))
	})

	datasets := NewDatasetAPI[qaInput, qaOutput](newTestAPI(t, handler))

	examples, err := datasets.Query(context.Background(), DatasetQueryOpts{ID: "ds-1", Limit: 2})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := examples.Next()
		require.NoError(t, err)
	}
	_, err = examples.Next()
	assert.Equal(t, io.EOF, err, "limit stops iteration even when more pages exist")
}
