package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"StratScan/internal/usecase"
	"StratScan/pkg/config"
	xhttp "StratScan/pkg/http"
	applogger "StratScan/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	scanner    *usecase.SignalScanner
}

func New(cfg *config.Config, logger *applogger.Logger, srv *xhttp.Server, scanner *usecase.SignalScanner) *App {
	return &App{cfg: cfg, logger: logger, httpServer: srv, scanner: scanner}
}

// Run starts the HTTP server and the scanner, then blocks until an interrupt,
// a server failure or ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := a.httpServer.Start()

	if a.cfg.Scanner.Enabled {
		if err := a.scanner.Start(ctx); err != nil {
			return fmt.Errorf("start scanner: %w", err)
		}
	} else {
		a.logger.Info("scanner disabled")
	}
	a.logger.Info("stratscan started",
		applogger.String("source", a.cfg.Source.Type),
		applogger.String("cache", a.cfg.Cache.Backend),
		applogger.Bool("ftc", a.cfg.Scanner.FTCEnabled),
	)

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err, ok := <-errc:
		if ok && err != nil {
			a.logger.Error("http server failed", applogger.Error(err))
			runErr = err
		}
	}
	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// shutdown stops the scanner first so no cycle publishes into a closed server.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.scanner.Shutdown(ctx); err != nil {
		a.logger.Warn("scanner stop error", applogger.Error(err))
	}
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.logger.Info("shutdown complete")
	return nil
}
