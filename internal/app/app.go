// Package app wires configuration into the running services.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"statarb/internal/config"
	"statarb/internal/logger"
	livehttp "statarb/internal/transport/http/live"
)

// App owns application-level orchestration: build dependencies from the
// config, then run the live decision loop and the status HTTP server.
type App struct {
	cfg      *config.Config
	live     *LiveService
	liveHTTP *livehttp.Server
}

// NewApp builds the application from config without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildApp(cfg)
}

// Run starts the live loop and the HTTP server, and blocks until either
// fails or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.live == nil {
		return fmt.Errorf("live service not initialized")
	}
	group, ctx := errgroup.WithContext(ctx)

	if a.liveHTTP != nil {
		group.Go(func() error {
			if err := a.liveHTTP.Start(ctx); err != nil {
				return fmt.Errorf("live http server error: %w", err)
			}
			return nil
		})
		logger.Infof("status API listening on %s", a.liveHTTP.Addr())
	}

	group.Go(func() error {
		defer a.live.Close()
		return a.live.Run(ctx)
	})

	return group.Wait()
}

// LiveService exposes the underlying live service (for replay harnesses).
func (a *App) LiveService() *LiveService {
	if a == nil {
		return nil
	}
	return a.live
}
