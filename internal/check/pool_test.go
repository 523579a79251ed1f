package check

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// stubProvider answers instantly without touching the network.
type stubProvider struct {
	calls atomic.Int32
	delay time.Duration
}

func (s *stubProvider) Name() string { return "Stub" }

func (s *stubProvider) Lookup(ctx context.Context, c cnpj.CNPJ) Result {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}
	return Result{Identifier: c, Status: "ATIVA", OK: true}
}

func makeIdentifiers(n int) []cnpj.CNPJ {
	ids := make([]cnpj.CNPJ, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, cnpj.New(cnpj.Base12(i)))
	}
	return ids
}

func TestRunPool_ChecksEveryIdentifier(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := &stubProvider{}
	ids := makeIdentifiers(50)

	seen := make(map[cnpj.CNPJ]bool)
	for r := range RunPool(context.Background(), provider, ids, 8) {
		assert.False(t, seen[r.Identifier], "each identifier is checked once")
		seen[r.Identifier] = true
	}

	assert.Len(t, seen, 50)
	assert.Equal(t, int32(50), provider.calls.Load())
}

func TestRunPool_SingleWorkerFloor(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := &stubProvider{}
	count := 0
	for range RunPool(context.Background(), provider, makeIdentifiers(3), 0) {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestRunPool_CancellationDrainsWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := &stubProvider{delay: 5 * time.Millisecond}
	ids := makeIdentifiers(200)

	ctx, cancel := context.WithCancel(context.Background())

	received := 0
	for r := range RunPool(ctx, provider, ids, 4) {
		received++
		if received == 5 {
			cancel()
		}
		_ = r
	}
	cancel()

	assert.Less(t, received, 200, "cancellation stops the pool before the full input")
}
