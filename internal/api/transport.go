package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// sessionControl is the slice of the session store the pipeline touches.
type sessionControl interface {
	Token() string
	Invalidate() bool
}

// Navigate performs the hard redirect to a route after a forced logout.
type Navigate func(route string)

type startTimeKey struct{}

func contextWithStart(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func elapsedSince(req *http.Request) time.Duration {
	if start, ok := req.Context().Value(startTimeKey{}).(time.Time); ok {
		return time.Since(start)
	}
	return 0
}

// bearerTransport is the outbound interceptor: it attaches the bearer token
// when a session exists, stamps the request start time for latency logging,
// and tags the request with an id. It never blocks or retries.
type bearerTransport struct {
	session sessionControl
	next    http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := contextWithStart(req.Context(), time.Now())
	req = req.Clone(ctx)

	if token := t.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", uuid.New().String())
	}

	return t.next.RoundTrip(req)
}

// timingTransport is the inbound interceptor's logging half: it reports
// elapsed time per request and flags server errors.
type timingTransport struct {
	next http.RoundTripper
}

func (t *timingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	elapsed := elapsedSince(req)

	if err != nil {
		log.Warn().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("request failed")
		return nil, err
	}

	evt := log.Debug()
	if resp.StatusCode >= http.StatusInternalServerError {
		evt = log.Warn()
	}
	evt.
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("request completed")

	return resp, nil
}

// unauthorizedTransport is the inbound interceptor's 401 half: any 401 is
// interpreted unconditionally as "session invalid". The store dedupes the
// transition, so a burst of concurrent 401s navigates exactly once. The
// response is still handed back to the caller unchanged; callers never need
// their own 401 handling.
type unauthorizedTransport struct {
	session    sessionControl
	navigate   Navigate
	loginRoute string
	next       http.RoundTripper
}

func (t *unauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if t.session.Invalidate() && t.navigate != nil {
			log.Info().Str("route", t.loginRoute).Msg("forced logout, redirecting")
			t.navigate(t.loginRoute)
		}
	}

	return resp, nil
}
