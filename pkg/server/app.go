package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"wingman/internal/service/telegram"
	"wingman/pkg/config"
	xhttp "wingman/pkg/http"
	applogger "wingman/pkg/logger"
)

// App encapsulates the application lifecycle: the HTTP surface, the optional
// Telegram poller, and the infrastructure clients that need closing.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	poller     *telegram.Poller
	closers    []io.Closer
}

func New(cfg *config.Config, logger *applogger.Logger, httpServer *xhttp.Server, poller *telegram.Poller, closers ...io.Closer) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		poller:     poller,
		closers:    closers,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	pollerDone := make(chan struct{})
	if a.poller != nil && a.cfg.Telegram.Polling {
		go func() {
			defer close(pollerDone)
			a.poller.Run(ctx)
		}()
	} else {
		close(pollerDone)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	<-pollerDone
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http server shutdown error", applogger.Error(err))
		firstErr = err
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close error", applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
