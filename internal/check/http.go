package check

import (
	"net/http"
	"net/url"
	"sync/atomic"
	"time"
)

const defaultTimeout = 30 * time.Second

// HTTPFetcher is the base of every chain: a plain client with a request
// timeout and, when proxies are configured, round-robin proxy rotation.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher builds the base client. Proxy URLs are parsed eagerly
// so a malformed entry fails the run before the first request.
func NewHTTPFetcher(timeout time.Duration, proxies []string) (*HTTPFetcher, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	if len(proxies) > 0 {
		parsed := make([]*url.URL, 0, len(proxies))
		for _, p := range proxies {
			u, err := url.Parse(p)
			if err != nil {
				return nil, NewErrInvalidProxy(err, p)
			}
			parsed = append(parsed, u)
		}

		var next atomic.Uint64
		transport.Proxy = func(*http.Request) (*url.URL, error) {
			i := next.Add(1) - 1
			return parsed[i%uint64(len(parsed))], nil
		}
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

// Do executes the request with the configured transport.
func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

// CloseIdleConnections releases pooled connections after a run.
func (f *HTTPFetcher) CloseIdleConnections() {
	f.client.CloseIdleConnections()
}
