// Package https wraps net/http for talking to the tracking service: bearer
// auth on every request, non-2xx responses turned into errors, and debug
// logging of each round trip.
package https

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/verdictlabs/verdict-go/logger"
)

// Client issues authenticated requests against a single API base URL.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient builds a client for the given endpoint. apiKey and apiURL must
// both be non-empty; a nil logger disables logging.
func NewClient(apiKey, apiURL string, log logger.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}
	if apiURL == "" {
		return nil, fmt.Errorf("apiURL is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		apiKey: apiKey,
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}, nil
}

// GET issues a GET request, encoding params into the query string.
func (c *Client) GET(ctx context.Context, path string, params map[string]string) (*http.Response, error) {
	fullURL := c.apiURL + path

	if len(params) > 0 {
		urlValues := url.Values{}
		for k, v := range params {
			urlValues.Add(k, v)
		}
		fullURL = fullURL + "?" + urlValues.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req)
}

// POST issues a POST request with body JSON-encoded when non-nil.
func (c *Client) POST(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)

		c.logger.Debug("http request body", "body", string(jsonData))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.doRequest(req)
}

// DELETE issues a DELETE request.
func (c *Client) DELETE(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.doRequest(req)
}

// doRequest attaches auth, sends the request, and rejects non-2xx statuses.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	c.logger.Debug("http request",
		"method", req.Method,
		"url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("http request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err,
			"duration", time.Since(start))
		return nil, fmt.Errorf("error making request: %w", err)
	}

	c.logger.Debug("http response",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		c.logger.Debug("http error response",
			"method", req.Method,
			"url", req.URL.String(),
			"status", resp.StatusCode,
			"body", string(body))

		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
