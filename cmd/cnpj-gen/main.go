package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	"github.com/geradorbr/cnpj-tools/internal/config"
	"github.com/geradorbr/cnpj-tools/internal/generate"
	"github.com/geradorbr/cnpj-tools/internal/notify"
	"github.com/geradorbr/cnpj-tools/internal/output"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	"github.com/geradorbr/cnpj-tools/internal/status"
	applog "github.com/geradorbr/cnpj-tools/pkg/log"
)

const appName = "cnpj-gen"

// Build information, injected via ldflags.
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func main() {
	// Configuration comes first; the log profile depends on it.
	configFile := config.DefaultFilename
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		// The logger is not up yet.
		fmt.Fprintf(os.Stderr, "[FATAL] failed to load the configuration: %v\n", err)
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
		"strategy":   appConfig.Generate.Strategy,
	}).Info("starting generation run")

	os.Exit(run(appConfig))
}

// countingSink forwards writes to the chunked writer and keeps an
// atomic total the status endpoint can read concurrently.
type countingSink struct {
	writer *output.Writer
	total  *atomic.Uint64
}

func (s countingSink) Write(c cnpj.CNPJ) error {
	if err := s.writer.Write(c); err != nil {
		return err
	}
	s.total.Add(1)
	return nil
}

func run(appConfig *config.AppConfig) int {
	gen := &appConfig.Generate

	strategy, err := newStrategy(gen)
	if err != nil {
		applog.WithComponent("main").WithError(err).Error("invalid generation parameters")
		return 1
	}

	var total atomic.Uint64
	writer, err := output.NewWriter(output.Config{
		Prefix:        gen.Output.Prefix,
		ChunkSize:     gen.Output.ChunkSize,
		Masked:        gen.Output.Masked,
		ProgressEvery: gen.Output.ProgressEvery,
		OnProgress: func(written uint64) {
			applog.WithComponentAndFields("main", applog.Fields{
				"written": written,
				"target":  gen.Count,
			}).Info("progress")
		},
	})
	if err != nil {
		applog.WithComponent("main").WithError(err).Error("failed to open the output destination")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var statusWG sync.WaitGroup
	if appConfig.Status.Enabled() {
		server := status.NewServer(appConfig.Status.ListenPort, gen.Strategy, gen.Count, total.Load)
		server.Start(ctx, &statusWG)
	}

	started := time.Now()
	written, runErr := generate.Run(ctx, strategy, countingSink{writer: writer, total: &total}, gen.Count)

	if err := writer.Close(); err != nil {
		applog.WithComponent("main").WithError(err).Error("failed to finalize the output files")
		if runErr == nil {
			runErr = err
		}
	}

	code := report(gen, written, started, runErr)

	sendNotification(&appConfig.Notify.Telegram, written, gen.Count, runErr)

	stop()
	statusWG.Wait()

	return code
}

// newStrategy maps the validated configuration onto a candidate cursor.
func newStrategy(gen *config.GenerateConfig) (generate.Strategy, error) {
	seed := gen.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	switch gen.Strategy {
	case "random":
		return generate.NewRandom(generate.RandomConfig{
			RootMin:        gen.Random.RootMin,
			RootMax:        gen.Random.RootMax,
			FixedBranch:    gen.Random.FixedBranch,
			BiasNewer:      gen.Random.BiasNewer,
			KeepDegenerate: gen.KeepDegenerate,
			Seed:           seed,
		})

	case "sequential":
		return generate.NewSequential(generate.SequentialConfig{
			Start:          gen.Sequential.Start,
			End:            gen.Sequential.End,
			Step:           gen.Sequential.Step,
			ShardIndex:     gen.Sequential.ShardIndex,
			ShardsTotal:    gen.Sequential.ShardsTotal,
			KeepDegenerate: gen.KeepDegenerate,
		})

	case "neighborhood":
		s, err := generate.NewNeighborhood(generate.NeighborhoodConfig{
			BaseCNPJ:       gen.Neighborhood.BaseCNPJ,
			Spread:         gen.Neighborhood.Spread,
			KeepDegenerate: gen.KeepDegenerate,
			Seed:           seed,
		})
		if err != nil {
			return nil, err
		}
		// More identifiers than the window holds can never be produced;
		// fail before any output instead of running into exhaustion.
		if gen.Count > s.Capacity() {
			return nil, apperrors.Newf(apperrors.InvalidInput,
				"generate.count (%d) exceeds the %d roots of the neighborhood window", gen.Count, s.Capacity())
		}
		return s, nil

	default:
		return nil, apperrors.Newf(apperrors.InvalidInput, "unknown generation strategy %q", gen.Strategy)
	}
}

// report logs the run outcome and picks the exit code. Short counts and
// cancellation keep their partial output and exit cleanly.
func report(gen *config.GenerateConfig, written uint64, started time.Time, runErr error) int {
	fields := applog.Fields{
		"written": written,
		"target":  gen.Count,
		"elapsed": time.Since(started).Round(time.Millisecond).String(),
	}

	switch {
	case runErr == nil:
		applog.WithComponentAndFields("main", fields).Info("run completed")
		return 0

	case errors.Is(runErr, generate.ErrExhausted):
		applog.WithComponentAndFields("main", fields).Warn("candidate space exhausted; run ended short")
		return 0

	case errors.Is(runErr, context.Canceled):
		applog.WithComponentAndFields("main", fields).Warn("run interrupted; partial output kept")
		return 0

	default:
		applog.WithComponentAndFields("main", fields).WithError(runErr).Error("run failed")
		return 1
	}
}

// sendNotification delivers the optional completion message; failures
// are logged and never change the exit code.
func sendNotification(cfg *config.TelegramConfig, written, target uint64, runErr error) {
	notifier := notify.NewTelegram(*cfg)
	if !notifier.Enabled() {
		return
	}

	if err := notifier.Send(notify.RunSummary(appName, written, target, runErr)); err != nil {
		applog.WithComponent("main").WithError(err).Warn("completion notification was not delivered")
	}
}
