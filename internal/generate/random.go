package generate

import (
	"math"
	"math/rand/v2"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
)

const (
	// DefaultRootMin and DefaultRootMax bound the sampled root range when
	// none is configured. The lower bound skips the oldest registrations,
	// where most numbers were never issued as new-format roots.
	DefaultRootMin = 35_000_000
	DefaultRootMax = 99_999_999

	// biasExponent shapes the recency bias: a Uniform(0,1) draw raised to
	// this power concentrates near zero, which the mapping below turns into
	// roots near RootMax. Any k > 1 yields the required monotonic skew.
	biasExponent = 2.0
)

// RandomConfig parameterizes the Random strategy.
type RandomConfig struct {
	// RootMin and RootMax bound the sampled root, inclusive on both ends.
	RootMin uint64
	RootMax uint64

	// FixedBranch pins the branch to a single value. When zero, the branch
	// is drawn uniformly from [1, 9999] on every emission.
	FixedBranch uint64

	// BiasNewer skews root sampling toward RootMax.
	BiasNewer bool

	// KeepDegenerate emits all-repeated-digit bases instead of resampling.
	KeepDegenerate bool

	// Seed makes the sequence reproducible.
	Seed uint64
}

// Random draws independent roots and branches on every emission. Repeats
// across draws are possible by design; only the Sequential and Neighborhood
// strategies guarantee uniqueness within a run.
type Random struct {
	cfg RandomConfig
	rng *rand.Rand
}

var _ Strategy = (*Random)(nil)

// NewRandom validates the configuration and builds the strategy.
func NewRandom(cfg RandomConfig) (*Random, error) {
	if cfg.RootMin == 0 && cfg.RootMax == 0 {
		cfg.RootMin, cfg.RootMax = DefaultRootMin, DefaultRootMax
	}
	if cfg.RootMax > cnpj.RootMax {
		return nil, apperrors.Newf(apperrors.InvalidInput, "root_max %d exceeds the 8-digit root space", cfg.RootMax)
	}
	if cfg.RootMin > cfg.RootMax {
		return nil, apperrors.Newf(apperrors.InvalidInput, "root_min %d is greater than root_max %d", cfg.RootMin, cfg.RootMax)
	}
	if cfg.FixedBranch > cnpj.BranchMax {
		return nil, apperrors.Newf(apperrors.InvalidInput, "fixed branch %d is outside [1, %d]", cfg.FixedBranch, cnpj.BranchMax)
	}

	return &Random{
		cfg: cfg,
		rng: newRand(cfg.Seed),
	}, nil
}

// Next draws a root and a branch, rejecting degenerate bases by resampling.
// It never exhausts.
func (s *Random) Next() (cnpj.CNPJ, error) {
	for {
		base, err := cnpj.NewBase12(s.drawRoot(), s.drawBranch())
		if err != nil {
			// Unreachable for validated config; surface it rather than loop.
			return 0, apperrors.Wrap(err, apperrors.Internal, "sampled base outside the valid domain")
		}

		if base.IsDegenerate() && !s.cfg.KeepDegenerate {
			continue
		}

		return cnpj.New(base), nil
	}
}

func (s *Random) drawRoot() uint64 {
	span := s.cfg.RootMax - s.cfg.RootMin + 1

	if !s.cfg.BiasNewer {
		return s.cfg.RootMin + s.rng.Uint64N(span)
	}

	// u^k piles mass near 0; subtracting from RootMax turns that into a
	// monotonically increasing density toward the top of the range.
	u := math.Pow(s.rng.Float64(), biasExponent)
	offset := uint64(u * float64(span))
	if offset >= span {
		offset = span - 1
	}
	return s.cfg.RootMax - offset
}

func (s *Random) drawBranch() uint64 {
	if s.cfg.FixedBranch != 0 {
		return s.cfg.FixedBranch
	}
	return cnpj.BranchMin + s.rng.Uint64N(cnpj.BranchMax)
}
