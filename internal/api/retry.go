package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// retryTransport retries idempotent GETs that failed in transit, with
// exponential backoff. Responses that arrived, including 5xx, are surfaced
// unchanged: the pipeline makes no recovery decision for them. Mutating
// methods are never retried.
type retryTransport struct {
	next            http.RoundTripper
	maxTries        uint
	initialInterval time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || t.maxTries < 2 {
		return t.next.RoundTrip(req)
	}

	attempt := 0
	operation := func() (*http.Response, error) {
		attempt++
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, backoff.Permanent(err)
			}
			log.Debug().
				Str("path", req.URL.Path).
				Int("attempt", attempt).
				Err(err).
				Msg("retrying request")
			return nil, err
		}
		return resp, nil
	}

	expo := backoff.NewExponentialBackOff()
	if t.initialInterval > 0 {
		expo.InitialInterval = t.initialInterval
	}

	return backoff.Retry(req.Context(), operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(t.maxTries),
	)
}
