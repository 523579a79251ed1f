package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook routes a single log event to the writers that want it:
// ERROR and above go to the critical and main writers, INFO and above to
// the main writer, DEBUG and below only to the verbose writer. The
// console writer, when set, receives everything. Keeping verbose noise
// out of the main stream is the whole point of the split.
type hook struct {
	mainWriter     io.Writer // INFO / WARN / ERROR / FATAL / PANIC
	criticalWriter io.Writer // ERROR / FATAL / PANIC
	verboseWriter  io.Writer // DEBUG / TRACE
	consoleWriter  io.Writer // every level, live

	formatter Formatter

	mu sync.RWMutex // logging takes the read lock, Close the write lock

	closed bool
}

// Levels implements logrus.Hook.
func (h *hook) Levels() []Level {
	return AllLevels
}

// Fire formats the entry once and writes it to each applicable writer.
// A failed writer never prevents the remaining writers from receiving
// the entry; the first error is returned after all writes.
func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error

	if h.consoleWriter != nil {
		// Console write failures only degrade live monitoring.
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[log] console write failed: %v\n", err)
		}
	}

	if entry.Level <= ErrorLevel && h.criticalWriter != nil {
		if _, err := h.criticalWriter.Write(msg); err != nil {
			firstErr = err
			fmt.Fprintf(os.Stderr, "[log] critical log write failed: %v\n", err)
		}
	}

	if entry.Level >= DebugLevel {
		if h.verboseWriter != nil {
			if _, err := h.verboseWriter.Write(msg); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				fmt.Fprintf(os.Stderr, "[log] verbose log write failed: %v\n", err)
			}
		}

		// Debug and trace entries never reach the main stream.
		return firstErr
	}

	if h.mainWriter != nil {
		if _, err := h.mainWriter.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[log] main log write failed: %v\n", err)
		}
	}

	return firstErr
}

// Close blocks new log traffic through the hook. It waits for in-flight
// Fire calls to drain so the files behind the writers can be closed
// without racing a write.
func (h *hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
