// Package api is the typed client for the Axiom gateway. Every request
// runs through the interceptor pipeline: bearer attach and start-time stamp
// on the way out; latency logging and forced logout on 401 on the way back.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CPU-JIA/axiom-cli/internal/guard"
	"github.com/CPU-JIA/axiom-cli/internal/session"
)

// Config holds common client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	CacheDir   string
	MaxRetries uint
	LoginRoute string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:8080/api/v1",
		Timeout:    10 * time.Second,
		MaxRetries: 3,
		LoginRoute: guard.LoginRoute,
	}
}

// Client is the Axiom API client with its typed resource groups.
type Client struct {
	baseURL    string
	httpClient *http.Client

	Projects *ProjectsAPI
	Tasks    *TasksAPI
}

// NewClient builds the client over the given session store. navigate is
// invoked (at most once per session invalidation) when the server forces a
// logout; nil disables the redirect.
func NewClient(cfg Config, store *session.Store, navigate Navigate) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = guard.LoginRoute
	}

	// Innermost first: cache, retry, 401 handling, timing, bearer.
	rt := newCachingTransport(cfg.CacheDir, http.DefaultTransport)
	rt = &retryTransport{next: rt, maxTries: cfg.MaxRetries}
	rt = &unauthorizedTransport{session: store, navigate: navigate, loginRoute: cfg.LoginRoute, next: rt}
	rt = &timingTransport{next: rt}
	rt = &bearerTransport{session: store, next: rt}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: rt,
		},
	}
	c.Projects = &ProjectsAPI{client: c}
	c.Tasks = &TasksAPI{client: c}
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// do performs one request and decodes the envelope. Non-2xx responses and
// unsuccessful envelopes surface as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFrom(resp.StatusCode, data)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}
