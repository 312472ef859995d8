package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	mid "HashClock/internal/middleware"
	"HashClock/internal/service/sky"
	"HashClock/pkg/config"
	xhttp "HashClock/pkg/http"
	pkgkafka "HashClock/pkg/kafka"
	applogger "HashClock/pkg/logger"
)

// App encapsulates the entire application lifecycle. The archive pipeline and
// the consumer are optional.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	hub        *sky.Hub
	pipeline   *mid.ArchivePipeline
	consumer   *pkgkafka.Consumer
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	hub *sky.Hub,
	pipeline *mid.ArchivePipeline,
	consumer *pkgkafka.Consumer,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		hub:        hub,
		pipeline:   pipeline,
		consumer:   consumer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts every component and blocks until ctx is done or the HTTP
// listener fails, then shuts down.
func (a *App) RunContext(ctx context.Context) error {
	// outlives ctx so the final archive flush can still reach the backend
	bg, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	if a.pipeline != nil {
		a.pipeline.Start(bg)
		a.log.Info("archive pipeline started", applogger.String("backend", a.cfg.Archive.Backend))
	}
	if a.hub != nil {
		go a.hub.Run(ctx)
	}
	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
	}
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-a.httpServer.Errors():
		a.log.Error("http server failed", applogger.Error(err))
		runErr = err
	}
	return errors.Join(runErr, a.shutdown())
}

// shutdown gracefully stops all services. Infrastructure clients are closed
// by the caller's cleanup afterwards.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	a.log.Info("shutting down...")

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	// after the consumer, whose batch requests still submit records
	if a.pipeline != nil {
		if err := a.pipeline.Stop(ctx); err != nil {
			a.log.Warn("archive pipeline stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
