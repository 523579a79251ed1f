// Package generate produces lazy sequences of checksum-valid CNPJ numbers.
//
// Three traversal strategies are provided: Random (sampling with optional
// recency bias), Sequential (exhaustive arithmetic sweep with sharding) and
// Neighborhood (non-repeating seeded walk around a base identifier). Each
// strategy is an explicit cursor pulled one number at a time, so even the
// full 10^12-candidate sequential space runs in constant memory.
package generate

import (
	"math/rand/v2"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
)

// Strategy is a lazy cursor over valid CNPJ numbers. Next returns the next
// number, or ErrExhausted once the strategy's candidate space is consumed.
// Implementations are not safe for concurrent use; a run drains a single
// cursor from a single goroutine.
type Strategy interface {
	Next() (cnpj.CNPJ, error)
}

// ErrExhausted signals that a bounded strategy has no further candidates.
// It is a terminal condition, not a failure: whatever was produced before
// it is complete and valid.
var ErrExhausted = apperrors.New(apperrors.ExecutionFailed, "candidate space exhausted before reaching the requested count")

// newRand builds the pseudo-random source shared by the seeded strategies.
// The seed fully determines the emitted sequence; runs with equal seeds and
// parameters are reproducible bit for bit.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
