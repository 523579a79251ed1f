package check

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitFetcher throttles every attempt that passes through it to a
// configured requests-per-second budget. It sits under the retry
// decorator so retried attempts are throttled too.
type RateLimitFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

var _ Fetcher = (*RateLimitFetcher)(nil)

// NewRateLimitFetcher wraps delegate with an rps budget; rps <= 0
// disables throttling.
func NewRateLimitFetcher(delegate Fetcher, rps float64) *RateLimitFetcher {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &RateLimitFetcher{
		delegate: delegate,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Do waits for a token, then forwards the request. Cancellation while
// waiting returns the context error.
func (f *RateLimitFetcher) Do(req *http.Request) (*http.Response, error) {
	if err := f.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return f.delegate.Do(req)
}
