package app

import (
	"context"
	"fmt"

	"craftybot/internal/config"
	"craftybot/internal/logger"
	opshttp "craftybot/internal/transport/http/ops"

	"golang.org/x/sync/errgroup"
)

// runner is a long-lived component that stops when its context is done.
type runner interface {
	Run(ctx context.Context) error
}

// App wires the chat gateway and the ops HTTP server and runs them together.
type App struct {
	cfg     *config.Config
	gateway runner
	opsHTTP *opshttp.Server
	Summary *StartupSummary
}

// NewApp builds the application without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run blocks until ctx is cancelled or one component fails; a failure stops
// the other component too.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.gateway == nil {
		return fmt.Errorf("discord gateway not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}
	a.watchConfig()

	group, ctx := errgroup.WithContext(ctx)
	if a.opsHTTP != nil {
		group.Go(func() error {
			if err := a.opsHTTP.Start(ctx); err != nil {
				return fmt.Errorf("ops http server error: %w", err)
			}
			return nil
		})
	}
	group.Go(func() error {
		return a.gateway.Run(ctx)
	})
	return group.Wait()
}

// watchConfig hot-applies log level changes from the config file.
func (a *App) watchConfig() {
	if a.cfg.Source == "" {
		return
	}
	err := config.Watch(a.cfg.Source, func(next *config.Config) {
		if next.App.LogLevel == logger.Level() {
			return
		}
		logger.SetLevel(next.App.LogLevel)
		logger.Infof("config reloaded: log level now %s", logger.Level())
	})
	if err != nil {
		logger.Warnf("config watch disabled: %v", err)
	}
}
