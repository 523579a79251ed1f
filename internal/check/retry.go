package check

import (
	"math/rand/v2"
	"net/http"
	"time"

	applog "github.com/geradorbr/cnpj-tools/pkg/log"
)

const (
	maxAllowedRetries = 10

	// maxRetryDelay caps the exponential backoff growth.
	maxRetryDelay = 30 * time.Second
)

// RetryFetcher retries transport failures and block responses (403,
// 429, 5xx) with exponential backoff and full jitter. The final
// response is returned as-is even when its status is still a block, so
// the provider can record the HTTP status in the report.
type RetryFetcher struct {
	delegate   Fetcher
	maxRetries int
	baseDelay  time.Duration
}

var _ Fetcher = (*RetryFetcher)(nil)

// NewRetryFetcher wraps delegate with up to maxRetries additional
// attempts spaced by a backoff starting at baseDelay.
func NewRetryFetcher(delegate Fetcher, maxRetries int, baseDelay time.Duration) *RetryFetcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries > maxAllowedRetries {
		maxRetries = maxAllowedRetries
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return &RetryFetcher{
		delegate:   delegate,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// retryableStatus reports whether the response status indicates a
// temporary block worth another attempt.
func retryableStatus(code int) bool {
	return code == http.StatusForbidden ||
		code == http.StatusTooManyRequests ||
		code >= 500
}

// Do performs the request, retrying while attempts remain and the
// failure looks temporary. Context cancellation stops the loop at once.
func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := f.delegate.Do(req)

		retryable := false
		switch {
		case err != nil:
			// A cancelled context is the caller stopping the run, not a
			// transient network failure.
			retryable = req.Context().Err() == nil
		case retryableStatus(resp.StatusCode):
			retryable = true
		}

		if !retryable || attempt >= f.maxRetries {
			return resp, err
		}

		if resp != nil {
			drainAndCloseBody(resp.Body)
		}

		delay := f.backoff(attempt)
		applog.WithComponentAndFields(component, applog.Fields{
			"url":     req.URL.Redacted(),
			"attempt": attempt + 1,
			"delay":   delay.String(),
		}).Debug("retrying blocked or failed request")

		select {
		case <-time.After(delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}
}

// backoff doubles the base delay per attempt, capped, then jitters the
// result so parallel workers do not hammer the site in lockstep.
func (f *RetryFetcher) backoff(attempt int) time.Duration {
	delay := f.baseDelay << uint(attempt)
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	return time.Duration(rand.Int64N(int64(delay))) + delay/2
}
