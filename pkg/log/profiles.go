package log

// NewProductionConfig returns options tuned for long unattended runs:
// file-centric output with critical and verbose streams isolated.
func NewProductionConfig(appName string) Options {
	return Options{
		Name:              appName,
		Level:             InfoLevel,
		MaxAge:            30,
		EnableCriticalLog: true,
		EnableVerboseLog:  true,
		EnableConsoleLog:  false,
		ReportCaller:      true,
		CallerPathPrefix:  "github.com/geradorbr",
	}
}

// NewDevelopmentConfig returns options tuned for interactive work:
// everything on the terminal, a single short-lived log file.
func NewDevelopmentConfig(appName string) Options {
	return Options{
		Name:              appName,
		Level:             TraceLevel,
		MaxAge:            1,
		MaxSizeMB:         50,
		MaxBackups:        5,
		EnableCriticalLog: false,
		EnableVerboseLog:  false,
		EnableConsoleLog:  true,
		ReportCaller:      true,
		CallerPathPrefix:  "github.com/geradorbr",
	}
}
