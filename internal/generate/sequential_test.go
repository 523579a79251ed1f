package generate

import (
	"testing"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain pulls the cursor until exhaustion and returns the emitted bases.
func drain(t *testing.T, s Strategy) []uint64 {
	t.Helper()

	var bases []uint64
	for {
		c, err := s.Next()
		if err != nil {
			require.ErrorIs(t, err, ErrExhausted)
			return bases
		}
		require.True(t, c.IsValid())
		bases = append(bases, uint64(c.Base12()))
	}
}

func TestSequential_SweepsRangeInOrder(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: 0, End: 20, Step: 1, KeepDegenerate: true})
	require.NoError(t, err)

	bases := drain(t, s)

	require.Len(t, bases, 20)
	for i, b := range bases {
		assert.Equal(t, uint64(i), b)
	}
}

func TestSequential_SkipsDegenerateByDefault(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: 0, End: 20, Step: 1})
	require.NoError(t, err)

	bases := drain(t, s)

	// Base 000000000000 is degenerate and must never be emitted.
	require.Len(t, bases, 19)
	assert.Equal(t, uint64(1), bases[0])
}

func TestSequential_Step(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: 10, End: 50, Step: 7, KeepDegenerate: true})
	require.NoError(t, err)

	assert.Equal(t, []uint64{10, 17, 24, 31, 38, 45}, drain(t, s))
}

func TestSequential_ShardUnionEqualsUnshardedSweep(t *testing.T) {
	const (
		start, end  = 100, 350
		step        = 3
		shardsTotal = 4
	)

	unsharded, err := NewSequential(SequentialConfig{Start: start, End: end, Step: step, KeepDegenerate: true})
	require.NoError(t, err)
	want := drain(t, unsharded)

	seen := make(map[uint64]int)
	var total int
	for idx := uint64(0); idx < shardsTotal; idx++ {
		s, err := NewSequential(SequentialConfig{
			Start:          start,
			End:            end,
			Step:           step,
			ShardIndex:     idx,
			ShardsTotal:    shardsTotal,
			KeepDegenerate: true,
		})
		require.NoError(t, err)

		for _, b := range drain(t, s) {
			seen[b]++
			total++
		}
	}

	assert.Len(t, seen, len(want), "shard union must cover the sweep")
	assert.Equal(t, len(want), total, "shards must not overlap")
	for _, b := range want {
		assert.Equal(t, 1, seen[b], "base %d emitted exactly once", b)
	}
}

func TestSequential_FullSpaceUpperBound(t *testing.T) {
	s, err := NewSequential(SequentialConfig{Start: cnpj.Base12Space - 3, KeepDegenerate: true})
	require.NoError(t, err)

	bases := drain(t, s)
	assert.Equal(t, []uint64{cnpj.Base12Space - 3, cnpj.Base12Space - 2, cnpj.Base12Space - 1}, bases)
}

func TestSequential_NeverRepeatsABase(t *testing.T) {
	// A stride that wraps uint64 to exactly 0 would pin the cursor and
	// emit the same base forever; such configurations must be rejected
	// before any output.
	_, err := NewSequential(SequentialConfig{
		Start:          0,
		End:            10,
		Step:           1 << 63,
		ShardsTotal:    2,
		KeepDegenerate: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestSequential_ShardStartBeyondSpaceIsEmpty(t *testing.T) {
	// The shard's first owned index can carry past uint64 while the
	// stride itself still fits; the shard then owns nothing in range.
	s, err := NewSequential(SequentialConfig{
		Start:          10,
		End:            100,
		Step:           3,
		ShardIndex:     6_148_914_691_236_517_204,
		ShardsTotal:    6_148_914_691_236_517_205,
		KeepDegenerate: true,
	})
	require.NoError(t, err)

	_, err = s.Next()
	require.ErrorIs(t, err, ErrExhausted)
}

func TestNewSequential_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  SequentialConfig
	}{
		{"start at or past end", SequentialConfig{Start: 20, End: 20}},
		{"end beyond base12 space", SequentialConfig{End: cnpj.Base12Space + 1}},
		{"shard index out of range", SequentialConfig{End: 100, ShardIndex: 4, ShardsTotal: 4}},
		{"step beyond base12 space", SequentialConfig{End: 10, Step: 1 << 63, ShardsTotal: 2, KeepDegenerate: true}},
		{"stride overflows uint64", SequentialConfig{End: 10, Step: cnpj.Base12Space, ShardsTotal: 1 << 52, KeepDegenerate: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSequential(tt.cfg)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		})
	}
}
