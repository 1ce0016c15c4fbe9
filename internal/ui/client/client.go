// Package client is used by the ui handlers to call the website REST API.
//
// Every outbound call goes through Client.do, which returns either the decoded payload or a *types.ApiError.
// Transport failures, unstructured error responses and undecodable bodies are all converted to that one shape (see errors.go),
// so callers only ever need to branch on ApiError.Status or display ApiError.Message.
package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client handles communication with the website API.
// A Client is immutable after construction and safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (used by tests and for custom transports)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for the debug log line written after each API call
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the API at baseURL.
// No client-side timeout is set: calls are bounded by the context passed to each method.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a request for path (e.g. /api/gallery) relative to the base URL.
// Empty query values are not sent.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	if len(query) > 0 {
		q := req.URL.Query()
		for key, values := range query {
			for _, v := range values {
				if v != "" {
					q.Add(key, v)
				}
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a successful JSON response into out (out may be nil).
// path is the API path recorded in any error returned.
func (c *Client) do(req *http.Request, path string, out any) error {
	start := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("API request failed",
			slog.String("method", req.Method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return normalizeError(nil, err, path)
	}
	defer res.Body.Close()

	c.logger.Debug("API request completed",
		slog.String("method", req.Method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return normalizeError(res, nil, path)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return newInternalError(err, "decoding response", path)
	}
	return nil
}

// getJSON issues a GET for path and decodes the response into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return newInternalError(err, "creating request", path)
	}
	return c.do(req, path, out)
}
