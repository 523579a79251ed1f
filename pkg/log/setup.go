// Package log configures the process-wide logrus logger: rotated file
// output via lumberjack, optional critical/verbose stream isolation and
// helpers for component-tagged entries.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileExt = "log"

	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

var (
	// setupOnce guards the global logger: one configuration per process.
	setupOnce sync.Once

	globalCloser   io.Closer
	globalSetupErr error
)

// Setup initializes the global logging system. Call it at the top of
// main and defer Close on the returned Closer. Repeated calls return the
// result of the first one.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setupInternal(opts)
	})

	return globalCloser, globalSetupErr
}

func setupInternal(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log options: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(opts.ReportCaller)

	// The default pipeline does nothing; the hook below formats once and
	// fans out to the configured writers.
	logrus.SetFormatter(&silentFormatter{})
	logrus.SetOutput(io.Discard)

	textFormatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			if opts.CallerPathPrefix != "" {
				if cut, found := strings.CutPrefix(function, opts.CallerPathPrefix); found {
					function = "..." + cut
				}
			}
			return
		},
	}

	logDir := opts.Dir
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create the log directory: %w", err)
	}

	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}

	newRotatedFile := func(suffix string) *lumberjack.Logger {
		name := opts.Name
		if suffix != "" {
			name += "." + suffix
		}
		return &lumberjack.Logger{
			Filename:   filepath.Join(logDir, fmt.Sprintf("%s.%s", name, fileExt)),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   false,
			LocalTime:  true,
		}
	}

	var closers []io.Closer

	mainLogger := newRotatedFile("")
	closers = append(closers, mainLogger)

	h := &hook{
		mainWriter: mainLogger,
		formatter:  textFormatter,
	}

	if opts.EnableCriticalLog {
		criticalLogger := newRotatedFile("critical")
		closers = append(closers, criticalLogger)
		h.criticalWriter = criticalLogger
	}
	if opts.EnableVerboseLog {
		verboseLogger := newRotatedFile("verbose")
		closers = append(closers, verboseLogger)
		h.verboseWriter = verboseLogger
	}
	if opts.EnableConsoleLog {
		h.consoleWriter = os.Stdout
	}

	logrus.AddHook(h)

	c := &closer{
		closers: closers,
		hook:    h,
	}

	// Fatal exits via logrus run os.Exit; flush and release first.
	logrus.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}

// SetDebugMode widens the level to Trace or narrows it back to Info.
// It can be called after Setup once the configuration has been loaded.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(logrus.TraceLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// WithComponent returns an entry tagged with the component field. Every
// package logs through this so the streams stay filterable.
func WithComponent(component string) *Entry {
	return logrus.WithFields(Fields{
		"component": component,
	})
}

// WithComponentAndFields returns an entry tagged with the component field
// plus the given fields.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["component"] = component
	return logrus.WithFields(merged)
}

// MaskSensitiveData hides the middle of tokens and keys so they can be
// logged without leaking the secret.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}
	if len(data) <= 3 {
		return "***"
	}
	if len(data) <= 12 {
		return data[:4] + "***"
	}
	return data[:4] + "***" + data[len(data)-4:]
}
