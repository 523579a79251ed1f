// Package check looks up generated identifiers against public company
// catalogs and writes the outcome to a CSV report. The HTTP side is a
// decorator chain: a base client wrapped with rate limiting, User-Agent
// injection and retry, composed per run from the configuration.
package check

import (
	"context"
	"io"
	"net/http"
	"sync"
)

// component names this package in structured logs.
const component = "check"

// Fetcher performs one HTTP request. Decorators wrap it to add retry,
// throttling and header injection without the providers knowing.
//
// The returned response body must be closed by the caller; on error the
// response is always nil and any body has been drained already.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get sends a GET request for url through f.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}

// maxDrainBytes caps how much of a discarded body is read back for
// connection reuse. Larger bodies cost more than a new connection.
const maxDrainBytes = 64 * 1024

var drainBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

// drainAndCloseBody empties and closes a response body so the underlying
// connection returns to the pool instead of being torn down.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()

	bufPtr := drainBufPool.Get().(*[]byte)
	defer drainBufPool.Put(bufPtr)

	_, _ = io.CopyBuffer(io.Discard, io.LimitReader(body, maxDrainBytes), *bufPtr)
}
