package log

import (
	"errors"
	"io"
	"sync/atomic"
)

// closer releases every logging resource in one call. The hook is shut
// down first so no write can race a closing file, then each file is
// synced and closed even when an earlier one fails.
type closer struct {
	closers []io.Closer

	hook *hook

	closed int32 // 0: open, 1: closed
}

func (c *closer) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}

	if c.hook != nil {
		_ = c.hook.Close()
	}

	var errs error
	for _, cl := range c.closers {
		if cl == nil {
			continue
		}

		if s, ok := cl.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}

		if err := cl.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}
