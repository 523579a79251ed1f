package log

import (
	"fmt"
	"os"
)

// Options configures the logging system for one process.
type Options struct {
	Name  string // application identifier used in log file names
	Dir   string // directory for log files ("" = ./logs)
	Level Level  // minimum level to record

	MaxAge     int // days to keep rotated files (0: keep forever)
	MaxSizeMB  int // rotation threshold per file in MB (0: default 100)
	MaxBackups int // rotated files to retain (0: default 20)

	EnableCriticalLog bool // isolate ERROR and above into a separate file
	EnableVerboseLog  bool // isolate DEBUG and below into a separate file
	EnableConsoleLog  bool // mirror every entry to stdout

	// ReportCaller records the file:line of the call site on every entry.
	ReportCaller bool

	// CallerPathPrefix shortens caller paths by trimming this prefix,
	// e.g. "github.com/geradorbr" turns
	// "github.com/geradorbr/cnpj-tools/internal/output" into
	// ".../cnpj-tools/internal/output".
	CallerPathPrefix string
}

// Validate checks the option values before Setup applies them.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("application identifier (Name) is required")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("log directory path %q already exists as a file", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge must not be negative: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB must not be negative: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups must not be negative: %d", opts.MaxBackups)
	}

	return nil
}
