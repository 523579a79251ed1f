// Package status serves a small observational HTTP API during long
// generation runs: a health probe and the writer's running total. The
// engine never blocks on it.
package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	applog "github.com/geradorbr/cnpj-tools/pkg/log"
	"github.com/labstack/echo/v4"
)

const component = "status.server"

// shutdownTimeout bounds the graceful shutdown wait.
const shutdownTimeout = 5 * time.Second

// ProgressSource reports the number of identifiers written so far. It
// is read on every progress request and must be safe for concurrent
// use; the engine exposes an atomic counter.
type ProgressSource func() uint64

// Server is the optional status endpoint of a generation run.
type Server struct {
	echo     *echo.Echo
	port     int
	strategy string
	target   uint64
	progress ProgressSource
	started  time.Time
}

// progressResponse is the /api/v1/progress payload.
type progressResponse struct {
	Strategy      string  `json:"strategy"`
	Target        uint64  `json:"target"`
	Written       uint64  `json:"written"`
	ElapsedSecond float64 `json:"elapsed_seconds"`
}

// NewServer wires the routes; nothing listens until Start.
func NewServer(port int, strategy string, target uint64, progress ProgressSource) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		port:     port,
		strategy: strategy,
		target:   target,
		progress: progress,
		started:  time.Now(),
	}

	e.GET("/healthz", s.handleHealth)
	e.GET("/api/v1/progress", s.handleProgress)

	return s
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProgress(c echo.Context) error {
	return c.JSON(http.StatusOK, progressResponse{
		Strategy:      s.strategy,
		Target:        s.target,
		Written:       s.progress(),
		ElapsedSecond: time.Since(s.started).Seconds(),
	})
}

// Start runs the listener in its own goroutine and shuts it down
// gracefully when ctx is cancelled. wg is released once the server has
// fully stopped.
func (s *Server) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)

	go func() {
		defer wg.Done()

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- s.echo.Start(fmt.Sprintf(":%d", s.port))
		}()

		applog.WithComponentAndFields(component, applog.Fields{
			"port": s.port,
		}).Info("status endpoint listening")

		select {
		case err := <-serverErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				applog.WithComponent(component).WithError(err).Error("status endpoint failed")
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := s.echo.Shutdown(shutdownCtx); err != nil {
				applog.WithComponent(component).WithError(err).Warn("status endpoint shutdown was not clean")
			}
		}
	}()
}
