// Package api provides a client for the Verdict tracking service. The
// tracking service stores datasets and run results; evaluations themselves
// execute locally and only push their records through this client.
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/verdictlabs/verdict-go/internal/https"
	"github.com/verdictlabs/verdict-go/logger"
)

// API is the main tracking-service client.
type API struct {
	client *https.Client
}

// Option configures an API client.
type Option func(*options)

// options holds configuration for creating an API client.
type options struct {
	apiURL string
	logger logger.Logger
}

// WithAPIURL sets the API URL for the client.
// If not provided, defaults to "https://api.verdictlabs.dev".
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// WithLogger sets a custom logger for the client.
// If not provided, no logging will occur.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// NewClient creates a new tracking-service client with the given API key and options.
func NewClient(apiKey string, opts ...Option) (*API, error) {
	options := &options{
		apiURL: "https://api.verdictlabs.dev", // default
		logger: nil,
	}

	for _, opt := range opts {
		opt(options)
	}

	client, err := https.NewClient(apiKey, options.apiURL, options.logger)
	if err != nil {
		return nil, err
	}

	return &API{
		client: client,
	}, nil
}

// doRequest makes an HTTP request with authentication
func (a *API) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	return a.doRequestWithParams(ctx, method, path, body, nil)
}

// doRequestWithParams makes an HTTP request with query parameters (for GET) or body (for POST/etc)
func (a *API) doRequestWithParams(ctx context.Context, method, path string, body interface{}, params url.Values) (*http.Response, error) {
	var paramsMap map[string]string
	if params != nil {
		paramsMap = make(map[string]string)
		for key, values := range params {
			if len(values) > 0 {
				paramsMap[key] = values[0]
			}
		}
	}

	switch method {
	case "GET":
		return a.client.GET(ctx, path, paramsMap)
	case "POST":
		return a.client.POST(ctx, path, body)
	case "DELETE":
		return a.client.DELETE(ctx, path)
	default:
		return a.client.POST(ctx, path, body)
	}
}

// Projects returns a client for project operations
func (a *API) Projects() *ProjectsClient {
	return &ProjectsClient{client: a}
}

// Datasets returns a client for dataset operations
func (a *API) Datasets() *DatasetsClient {
	return &DatasetsClient{client: a}
}

// Runs returns a client for run operations
func (a *API) Runs() *RunsClient {
	return &RunsClient{client: a}
}
