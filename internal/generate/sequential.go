package generate

import (
	"math/bits"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
)

// SequentialConfig parameterizes the Sequential strategy.
type SequentialConfig struct {
	// Start (inclusive) and End (exclusive) bound the base12 sweep.
	// End == 0 means the full space, [Start, 10^12).
	Start uint64
	End   uint64

	// Step is the sweep increment; it defaults to 1.
	Step uint64

	// ShardIndex and ShardsTotal statically partition the swept indices so
	// that independent processes cover disjoint slices of the sweep without
	// coordination. ShardsTotal == 0 or 1 disables sharding.
	ShardIndex  uint64
	ShardsTotal uint64

	// KeepDegenerate emits all-repeated-digit bases instead of skipping them.
	KeepDegenerate bool
}

// Sequential walks the arithmetic progression start, start+step, ... below
// end. Uniqueness within a run is structural: no base is visited twice, and
// the union of all shards of one sweep reproduces the unsharded sweep
// exactly once.
type Sequential struct {
	cfg    SequentialConfig
	next   uint64
	stride uint64
	done   bool
}

var _ Strategy = (*Sequential)(nil)

// NewSequential validates the configuration and positions the cursor on the
// first base owned by this shard.
func NewSequential(cfg SequentialConfig) (*Sequential, error) {
	if cfg.Step == 0 {
		cfg.Step = 1
	}
	if cfg.Step > cnpj.Base12Space {
		return nil, apperrors.Newf(apperrors.InvalidInput, "step %d exceeds the base12 space (10^12)", cfg.Step)
	}
	if cfg.End == 0 {
		cfg.End = cnpj.Base12Space
	}
	if cfg.End > cnpj.Base12Space {
		return nil, apperrors.Newf(apperrors.InvalidInput, "end %d exceeds the base12 space (10^12)", cfg.End)
	}
	if cfg.Start >= cfg.End {
		return nil, apperrors.Newf(apperrors.InvalidInput, "empty sweep range: start %d is not below end %d", cfg.Start, cfg.End)
	}
	if cfg.ShardsTotal == 0 {
		cfg.ShardsTotal = 1
	}
	if cfg.ShardIndex >= cfg.ShardsTotal {
		return nil, apperrors.Newf(apperrors.InvalidInput, "shard index %d is outside [0, %d)", cfg.ShardIndex, cfg.ShardsTotal)
	}

	// Sharding partitions the swept indices, not the raw values: index i of
	// the progression belongs to shard i mod total. The shard's own walk is
	// therefore a coarser progression with stride step*total. A stride that
	// overflows uint64 would wrap (possibly to 0) and revisit bases, so it
	// is rejected; the offset to the shard's first index stays below the
	// stride and only its addition to Start can carry.
	hi, stride := bits.Mul64(cfg.Step, cfg.ShardsTotal)
	if hi != 0 {
		return nil, apperrors.Newf(apperrors.InvalidInput,
			"step %d across %d shards overflows the sweep arithmetic", cfg.Step, cfg.ShardsTotal)
	}
	first, carry := bits.Add64(cfg.Start, cfg.ShardIndex*cfg.Step, 0)
	if carry != 0 {
		// The shard's first owned index already lies beyond the sweep.
		first = cfg.End
	}

	return &Sequential{
		cfg:    cfg,
		next:   first,
		stride: stride,
	}, nil
}

// Next advances to the shard's next non-filtered base and emits it.
func (s *Sequential) Next() (cnpj.CNPJ, error) {
	for !s.done {
		if s.next >= s.cfg.End {
			s.done = true
			break
		}

		base := cnpj.Base12(s.next)

		if advanced := s.next + s.stride; advanced < s.next {
			// uint64 wrap-around near the top of the space.
			s.done = true
		} else {
			s.next = advanced
		}

		if base.IsDegenerate() && !s.cfg.KeepDegenerate {
			continue
		}

		return cnpj.New(base), nil
	}

	return 0, ErrExhausted
}
