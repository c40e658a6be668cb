package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Run represents an evaluation run registered with the tracking service.
type Run struct {
	ID        string                 `json:"id"`
	Label     string                 `json:"label"`
	ProjectID string                 `json:"project_id"`
	Tags      []string               `json:"tags,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// RunRequest represents the request payload for registering a run
type RunRequest struct {
	ProjectID string                 `json:"project_id"`
	Label     string                 `json:"label"`
	Tags      []string               `json:"tags,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// RunSummary is the aggregate payload uploaded for a completed run. Scores
// map evaluator names to their aggregates.
type RunSummary struct {
	Label       string                  `json:"label"`
	StartedAt   time.Time               `json:"started_at"`
	DurationSec float64                 `json:"duration_sec"`
	Examples    int                     `json:"examples"`
	Failures    int                     `json:"failures"`
	Unprocessed int                     `json:"unprocessed,omitempty"`
	Scores      map[string]ScoreSummary `json:"scores"`
	Metadata    map[string]interface{}  `json:"metadata,omitempty"`
}

// ScoreSummary is the per-evaluator aggregate inside a RunSummary.
type ScoreSummary struct {
	Mean     float64 `json:"mean"`
	Scored   int     `json:"scored"`
	Failures int     `json:"failures"`
}

// RunsClient handles run-related API operations
type RunsClient struct {
	client *API
}

// Register creates a run by label within a project.
func (r *RunsClient) Register(ctx context.Context, label, projectID string, tags []string, metadata map[string]interface{}) (*Run, error) {
	if label == "" {
		return nil, fmt.Errorf("run label is required")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	reqBody := RunRequest{
		ProjectID: projectID,
		Label:     label,
		Tags:      tags,
		Metadata:  metadata,
	}

	resp, err := r.client.doRequest(ctx, "POST", "/v1/run", reqBody)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result Run
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return &result, nil
}

// LogSummary uploads the aggregate summary for a completed run.
func (r *RunsClient) LogSummary(ctx context.Context, runID string, summary RunSummary) error {
	if runID == "" {
		return fmt.Errorf("run ID is required")
	}

	resp, err := r.client.doRequest(ctx, "POST", "/v1/run/"+runID+"/summary", summary)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return nil
}
