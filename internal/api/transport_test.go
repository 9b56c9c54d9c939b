package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CPU-JIA/axiom-cli/internal/session"
)

// authedStore returns a store holding an established session.
func authedStore(t *testing.T, token string) *session.Store {
	t.Helper()
	store := session.NewStore(nil, nil)
	store.Initialize()
	require.NoError(t, store.CompleteLogin(&session.User{ID: "1", Email: "jia@axiom.dev"}, token))
	return store
}

func anonStore() *session.Store {
	store := session.NewStore(nil, nil)
	store.Initialize()
	return store
}

type captureTransport struct {
	req *http.Request
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.req = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func TestBearerTransport(t *testing.T) {
	t.Run("attaches the bearer token when a session exists", func(t *testing.T) {
		capture := &captureTransport{}
		rt := &bearerTransport{session: authedStore(t, "tok-1"), next: capture}

		req, _ := http.NewRequest(http.MethodGet, "http://example.com/projects", nil)
		_, err := rt.RoundTrip(req)
		require.NoError(t, err)

		assert.Equal(t, "Bearer tok-1", capture.req.Header.Get("Authorization"))
		assert.NotEmpty(t, capture.req.Header.Get("X-Request-Id"))
	})

	t.Run("leaves anonymous requests bare", func(t *testing.T) {
		capture := &captureTransport{}
		rt := &bearerTransport{session: anonStore(), next: capture}

		req, _ := http.NewRequest(http.MethodGet, "http://example.com/projects", nil)
		_, err := rt.RoundTrip(req)
		require.NoError(t, err)

		assert.Empty(t, capture.req.Header.Get("Authorization"))
	})

	t.Run("stamps the start time for latency logging", func(t *testing.T) {
		capture := &captureTransport{}
		rt := &bearerTransport{session: anonStore(), next: capture}

		req, _ := http.NewRequest(http.MethodGet, "http://example.com/projects", nil)
		_, err := rt.RoundTrip(req)
		require.NoError(t, err)

		assert.Greater(t, elapsedSince(capture.req), time.Duration(0))
	})
}

func TestUnauthorizedTransport(t *testing.T) {
	t.Run("401 forces logout and navigates to login", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		store := authedStore(t, "tok-1")
		var navigated []string
		client := NewClient(Config{BaseURL: server.URL}, store, func(route string) {
			navigated = append(navigated, route)
		})

		_, err := client.Projects.List(context.Background(), ListParams{})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

		st := store.Snapshot()
		assert.False(t, st.Authenticated)
		assert.Nil(t, st.User)
		assert.Equal(t, []string{"/login"}, navigated)
	})

	t.Run("concurrent 401s navigate exactly once", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		store := authedStore(t, "tok-1")
		var navigations atomic.Int32
		client := NewClient(Config{BaseURL: server.URL}, store, func(string) {
			navigations.Add(1)
		})

		const n = 8
		var wg sync.WaitGroup
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = client.Projects.List(context.Background(), ListParams{})
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), navigations.Load())
		assert.False(t, store.Snapshot().Authenticated)
	})

	t.Run("401 on an anonymous session does not navigate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		var navigations atomic.Int32
		client := NewClient(Config{BaseURL: server.URL}, anonStore(), func(string) {
			navigations.Add(1)
		})

		_, err := client.Projects.List(context.Background(), ListParams{})
		require.Error(t, err)
		assert.Equal(t, int32(0), navigations.Load())
	})
}

type flakyTransport struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func TestRetryTransport(t *testing.T) {
	t.Run("retries transport failures on GET", func(t *testing.T) {
		flaky := &flakyTransport{failures: 2}
		rt := &retryTransport{next: flaky, maxTries: 3, initialInterval: time.Millisecond}

		req, _ := http.NewRequest(http.MethodGet, "http://example.com/projects", nil)
		resp, err := rt.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 3, flaky.calls)
	})

	t.Run("gives up after max tries", func(t *testing.T) {
		flaky := &flakyTransport{failures: 10}
		rt := &retryTransport{next: flaky, maxTries: 3, initialInterval: time.Millisecond}

		req, _ := http.NewRequest(http.MethodGet, "http://example.com/projects", nil)
		_, err := rt.RoundTrip(req)
		require.Error(t, err)
		assert.Equal(t, 3, flaky.calls)
	})

	t.Run("never retries mutating methods", func(t *testing.T) {
		flaky := &flakyTransport{failures: 10}
		rt := &retryTransport{next: flaky, maxTries: 3, initialInterval: time.Millisecond}

		req, _ := http.NewRequest(http.MethodPost, "http://example.com/projects", strings.NewReader("{}"))
		_, err := rt.RoundTrip(req)
		require.Error(t, err)
		assert.Equal(t, 1, flaky.calls)
	})

	t.Run("does not retry 5xx responses", func(t *testing.T) {
		calls := 0
		next := roundTripFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			return &http.Response{
				StatusCode: http.StatusInternalServerError,
				Header:     http.Header{},
				Body:       io.NopCloser(strings.NewReader("")),
			}, nil
		})
		rt := &retryTransport{next: next, maxTries: 3, initialInterval: time.Millisecond}

		req, _ := http.NewRequest(http.MethodGet, "http://example.com/projects", nil)
		resp, err := rt.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, 1, calls)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
