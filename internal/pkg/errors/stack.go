package errors

import (
	"path/filepath"
	"runtime"
)

// defaultCallerSkip skips runtime.Callers, captureStack and the public
// constructor (New/Wrap/...) so the first recorded frame is the call site
// that created the error.
const defaultCallerSkip = 3

// StackFrame holds the execution context of a single call stack entry.
type StackFrame struct {
	File     string
	Line     int
	Function string
}

// captureStack records up to five frames starting at the caller's level.
func captureStack(skip int) []StackFrame {
	const maxFrames = 5
	pc := make([]uintptr, maxFrames)
	n := runtime.Callers(skip, pc)

	if n == 0 {
		return nil
	}

	callersFrames := runtime.CallersFrames(pc[:n])

	frames := make([]StackFrame, 0, n)
	for {
		frame, more := callersFrames.Next()
		frames = append(frames, StackFrame{
			File:     filepath.Base(frame.File),
			Line:     frame.Line,
			Function: frame.Function,
		})
		if !more {
			break
		}
	}

	return frames
}
