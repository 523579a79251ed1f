package check

import (
	"math/rand/v2"
	"net/http"
)

// defaultUserAgents is a rotation of current browser identities; the
// catalog sites answer 403 to obvious non-browser clients.
var defaultUserAgents = []string{
	// Chrome 120 - Windows
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	// Chrome 120 - macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	// Chrome 120 - Linux
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	// Firefox 121 - Windows
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	// Firefox 121 - macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
	// Safari 17.2 - macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// UserAgentFetcher injects a randomly chosen User-Agent into requests
// that do not carry one. Placing it under the retry decorator means a
// blocked identity is swapped for a fresh one on the next attempt.
type UserAgentFetcher struct {
	delegate   Fetcher
	userAgents []string
}

var _ Fetcher = (*UserAgentFetcher)(nil)

// NewUserAgentFetcher wraps delegate; an empty list falls back to the
// built-in rotation.
func NewUserAgentFetcher(delegate Fetcher, userAgents []string) *UserAgentFetcher {
	return &UserAgentFetcher{
		delegate:   delegate,
		userAgents: userAgents,
	}
}

// Do forwards the request, cloning it first when a User-Agent has to be
// injected so the caller's request stays untouched.
func (f *UserAgentFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return f.delegate.Do(req)
	}

	uas := f.userAgents
	if len(uas) == 0 {
		uas = defaultUserAgents
	}

	cloned := req.Clone(req.Context())
	cloned.Header.Set("User-Agent", uas[rand.IntN(len(uas))])

	return f.delegate.Do(cloned)
}
