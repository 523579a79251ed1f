package generate

import (
	"context"
	"errors"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
)

// Sink consumes the generated numbers in emission order.
type Sink interface {
	Write(c cnpj.CNPJ) error
}

// Run drains the strategy into the sink until the target count is reached,
// the strategy exhausts, the context is cancelled, or the sink fails.
//
// target == 0 means "until exhausted" and is only meaningful for bounded
// strategies. The returned count is always the number of lines the sink
// accepted, so a cancelled or short run still reports exactly what is on
// disk.
//
// Errors: ErrExhausted when a target was set and the strategy ran out first
// (the caller reports the short count); the context error on cancellation;
// sink failures are passed through fatally. Every emitted number is
// re-verified against the checksum before it reaches the sink; that
// invariant is never bypassed.
func Run(ctx context.Context, s Strategy, sink Sink, target uint64) (uint64, error) {
	var written uint64

	for target == 0 || written < target {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		c, err := s.Next()
		if err != nil {
			if errors.Is(err, ErrExhausted) && target == 0 {
				// An unbounded run finishing its space is normal completion.
				return written, nil
			}
			return written, err
		}

		if !c.IsValid() {
			return written, apperrors.Newf(apperrors.Internal, "generated number %s fails its own checksum", c)
		}

		if err := sink.Write(c); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}
