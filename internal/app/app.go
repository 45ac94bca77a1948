package app

import (
	"context"
	"errors"

	"github.com/nliven/airsync/internal/bus"
	"github.com/nliven/airsync/internal/config"
	"github.com/nliven/airsync/internal/logger"
	"github.com/nliven/airsync/internal/metrics"
	"github.com/nliven/airsync/internal/repository"
	"github.com/nliven/airsync/internal/syncer"
)

// App is the application container (immutable dependencies + lifecycle
// context). The store and the event bus exist exactly once per process
// and every collaborator receives them from here; nothing reaches for
// globals. It is not a request context; handlers should still use
// gin's request context.
type App struct {
	Config  *config.Config
	Store   repository.AirportStore
	Bus     *bus.Bus
	Metrics *metrics.Metrics
	Syncer  *syncer.Syncer

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

func New(cfg *config.Config, store repository.AirportStore, b *bus.Bus, m *metrics.Metrics, fetcher syncer.Fetcher) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if b == nil {
		return nil, errors.New("bus is nil")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:  cfg,
		Store:   store,
		Bus:     b,
		Metrics: m,
		Syncer:  syncer.New(ctx, fetcher, store, b, m),
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
}

// StartBackground launches the data-file watcher and, when enabled,
// the periodic sync. Both stop when the app context is canceled.
func (a *App) StartBackground() error {
	if err := a.Store.StartWatcher(a.BaseCtx); err != nil {
		return err
	}

	if a.Config.Data.RefreshEnabled {
		syncer.StartPeriodicSync(a.BaseCtx, a.Syncer, a.Config.Data.RefreshInterval)
	}

	logger.WithComponent("app").Debug("background workers started")
	return nil
}
