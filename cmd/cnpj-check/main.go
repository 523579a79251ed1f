package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geradorbr/cnpj-tools/internal/check"
	"github.com/geradorbr/cnpj-tools/internal/config"
	"github.com/geradorbr/cnpj-tools/internal/notify"
	applog "github.com/geradorbr/cnpj-tools/pkg/log"
)

const appName = "cnpj-check"

// Build information, injected via ldflags.
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func main() {
	configFile := config.DefaultFilename
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] failed to load the configuration: %v\n", err)
		os.Exit(1)
	}

	if appConfig.Check.InputFile == "" {
		fmt.Fprintln(os.Stderr, "[FATAL] check.input_file is not configured")
		os.Exit(1)
	}

	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentConfig(appName)
	} else {
		logOpts = applog.NewProductionConfig(appName)
	}
	logOpts.Dir = appConfig.Log.Dir

	logCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	applog.WithComponentAndFields("main", applog.Fields{
		"version":    Version,
		"build_date": BuildDate,
		"config":     configFile,
		"provider":   appConfig.Check.Provider,
		"input":      appConfig.Check.InputFile,
	}).Info("starting catalog check run")

	os.Exit(run(appConfig))
}

func run(appConfig *config.AppConfig) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	summary, runErr := check.New(&appConfig.Check).Run(ctx)

	code := 0
	switch {
	case runErr == nil:

	case errors.Is(runErr, context.Canceled):
		applog.WithComponent("main").Warn("check interrupted; the partial report was kept")

	default:
		applog.WithComponent("main").WithError(runErr).Error("check run failed")
		code = 1
	}

	if summary != nil {
		applog.WithComponentAndFields("main", applog.Fields{
			"total":     summary.Total,
			"completed": summary.Completed,
			"ok":        summary.OK,
			"active":    summary.Active,
			"failed":    summary.Failed,
			"report":    summary.ReportPath,
			"elapsed":   time.Since(started).Round(time.Millisecond).String(),
		}).Info("check summary")

		sendNotification(appConfig, summary, runErr)
	}

	return code
}

func sendNotification(appConfig *config.AppConfig, summary *check.Summary, runErr error) {
	notifier := notify.NewTelegram(appConfig.Notify.Telegram)
	if !notifier.Enabled() {
		return
	}

	text := notify.RunSummary(appName, uint64(summary.Completed), uint64(summary.Total), runErr)
	if summary.Completed > 0 {
		text += fmt.Sprintf(" (%d active, %d failed)", summary.Active, summary.Failed)
	}

	if err := notifier.Send(text); err != nil {
		applog.WithComponent("main").WithError(err).Warn("completion notification was not delivered")
	}
}
