package generate

import (
	"math/rand/v2"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
)

// DefaultSpread is how far the Neighborhood strategy expands below and
// above the base root when no spread is configured.
const DefaultSpread = 30_000_000

// NeighborhoodConfig parameterizes the Neighborhood strategy.
type NeighborhoodConfig struct {
	// BaseCNPJ seeds the walk. Masked and raw forms are both accepted; only
	// the 8-digit root is used, the branch is always pinned to 0001.
	BaseCNPJ string

	// Spread bounds the candidate roots to
	// [max(0, root-Spread), min(99999999, root+Spread)].
	Spread uint64

	// KeepDegenerate emits all-repeated-digit bases instead of skipping them.
	KeepDegenerate bool

	// Seed fixes the visiting order; equal seeds replay the same sequence.
	Seed uint64
}

// Neighborhood visits every root of the window around the base identifier
// exactly once, in a seeded pseudo-random order. The order is an arithmetic
// permutation i -> (a*i + b) mod n with a coprime to n, so no root repeats
// within a run and no candidate list is ever materialized.
type Neighborhood struct {
	cfg  NeighborhoodConfig
	low  uint64 // first candidate root
	size uint64 // number of candidate roots
	a, b uint64 // permutation coefficients
	pos  uint64 // next permutation index
}

var _ Strategy = (*Neighborhood)(nil)

// NewNeighborhood extracts the root from the base identifier and prepares
// the seeded permutation of the surrounding window.
func NewNeighborhood(cfg NeighborhoodConfig) (*Neighborhood, error) {
	root, _, err := cnpj.ParseBase(cfg.BaseCNPJ)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "invalid base identifier for the neighborhood walk")
	}
	if root > cnpj.RootMax {
		return nil, apperrors.Newf(apperrors.InvalidInput, "base root %d exceeds the 8-digit root space", root)
	}
	if cfg.Spread == 0 {
		cfg.Spread = DefaultSpread
	}
	if cfg.Spread > cnpj.RootMax {
		// A spread past the root space covers everything already; keeping
		// it bounded also keeps root+Spread below the uint64 ceiling.
		cfg.Spread = cnpj.RootMax
	}

	low := uint64(0)
	if root > cfg.Spread {
		low = root - cfg.Spread
	}
	high := min(root+cfg.Spread, cnpj.RootMax)
	size := high - low + 1

	rng := newRand(cfg.Seed)
	return &Neighborhood{
		cfg:  cfg,
		low:  low,
		size: size,
		a:    drawCoprime(rng, size),
		b:    rng.Uint64N(size),
		pos:  0,
	}, nil
}

// Capacity returns the number of candidate roots in the window, before
// degenerate filtering. Callers reject targets beyond it up front.
func (s *Neighborhood) Capacity() uint64 {
	return s.size
}

// Next emits the CNPJ of the next unvisited root, or ErrExhausted once the
// whole window has been walked.
func (s *Neighborhood) Next() (cnpj.CNPJ, error) {
	for s.pos < s.size {
		j := (s.a*s.pos + s.b) % s.size
		s.pos++

		base, err := cnpj.NewBase12(s.low+j, 1)
		if err != nil {
			return 0, apperrors.Wrap(err, apperrors.Internal, "neighborhood candidate outside the valid domain")
		}

		if base.IsDegenerate() && !s.cfg.KeepDegenerate {
			continue
		}

		return cnpj.New(base), nil
	}

	return 0, ErrExhausted
}

// drawCoprime picks a random multiplier coprime to n, so that i -> a*i+b
// mod n is a bijection over [0, n). 1 is always coprime, so the loop
// terminates for every n.
func drawCoprime(rng *rand.Rand, n uint64) uint64 {
	if n <= 2 {
		return 1
	}
	for {
		a := 1 + rng.Uint64N(n-1)
		if gcd(a, n) == 1 {
			return a
		}
	}
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
