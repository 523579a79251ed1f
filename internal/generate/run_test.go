package generate

import (
	"context"
	"testing"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	lines []cnpj.CNPJ
	fail  error
}

func (m *memorySink) Write(c cnpj.CNPJ) error {
	if m.fail != nil {
		return m.fail
	}
	m.lines = append(m.lines, c)
	return nil
}

func TestRun_StopsAtTarget(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: 1, End: 1000})
	require.NoError(t, err)

	sink := &memorySink{}
	written, err := Run(context.Background(), s, sink, 7)

	require.NoError(t, err)
	assert.Equal(t, uint64(7), written)
	assert.Len(t, sink.lines, 7)
}

func TestRun_UnboundedDrainsUntilExhausted(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: 1, End: 31})
	require.NoError(t, err)

	sink := &memorySink{}
	written, err := Run(context.Background(), s, sink, 0)

	require.NoError(t, err)
	assert.Equal(t, uint64(30), written)
}

func TestRun_ReportsShortCountOnExhaustion(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: 1, End: 11})
	require.NoError(t, err)

	sink := &memorySink{}
	written, err := Run(context.Background(), s, sink, 50)

	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, uint64(10), written, "everything produced before exhaustion is flushed")
	assert.Len(t, sink.lines, 10)
}

func TestRun_CancellationStopsCleanly(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &memorySink{}
	written, err := Run(ctx, s, sink, 0)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(len(sink.lines)), written)
}

func TestRun_SinkFailureIsFatal(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: 1})
	require.NoError(t, err)

	sinkErr := apperrors.New(apperrors.System, "disk full")
	sink := &memorySink{fail: sinkErr}

	written, err := Run(context.Background(), s, sink, 100)

	require.ErrorIs(t, err, sinkErr)
	assert.Zero(t, written)
}
