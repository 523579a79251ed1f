package log

import (
	"github.com/sirupsen/logrus"
)

// Level is an alias for logrus.Level.
type Level = logrus.Level

const (
	// PanicLevel logs and then calls panic().
	PanicLevel Level = logrus.PanicLevel

	// FatalLevel logs and then terminates the process with os.Exit(1).
	FatalLevel Level = logrus.FatalLevel

	// ErrorLevel marks failures that need operator attention but do not
	// stop the process.
	ErrorLevel Level = logrus.ErrorLevel

	// WarnLevel marks conditions that are not yet errors but deserve a look.
	WarnLevel Level = logrus.WarnLevel

	// InfoLevel records the normal operational flow.
	InfoLevel Level = logrus.InfoLevel

	// DebugLevel records diagnostic detail for development and support.
	DebugLevel Level = logrus.DebugLevel

	// TraceLevel records the finest-grained detail.
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels is an alias for logrus.AllLevels.
var AllLevels = logrus.AllLevels

// Fields is an alias for logrus.Fields.
type Fields = logrus.Fields

// Entry is an alias for logrus.Entry.
type Entry = logrus.Entry

// Hook is an alias for logrus.Hook.
type Hook = logrus.Hook

// Logger is an alias for logrus.Logger.
type Logger = logrus.Logger

// Formatter is an alias for logrus.Formatter.
type Formatter = logrus.Formatter

// TextFormatter is an alias for logrus.TextFormatter.
type TextFormatter = logrus.TextFormatter
