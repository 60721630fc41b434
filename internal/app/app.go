package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apphttp "github.com/yungbote/mongoarchitect-backend/internal/http"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine"
	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	Engine   *schemaengine.Engine
	Repos    Repos
	Services Services
	Server   *apphttp.Server

	sql     *gorm.DB
	redis   *goredis.Client
	closers []func(context.Context) error
	cancel  context.CancelFunc
}

// New opens every backend named by cfg and wires the HTTP server. On error
// whatever was already opened is closed again.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*App, error) {
	a := &App{Log: log, Cfg: cfg}

	if shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	}); shutdown != nil {
		a.closers = append(a.closers, shutdown)
	}
	a.Metrics = observability.Init(log)

	engine, client, err := NewEngine(cfg, log, a.Metrics)
	if err != nil {
		a.closeAll(ctx)
		return nil, fmt.Errorf("init llm: %w", err)
	}
	a.Engine = engine

	st, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		a.closeAll(ctx)
		return nil, err
	}
	a.Repos = st.repos
	a.sql = st.sql
	a.closers = append(a.closers, st.close)

	sessions, rdb, closeSessions, err := openSessions(cfg, log)
	if err != nil {
		a.closeAll(ctx)
		return nil, fmt.Errorf("init sessions: %w", err)
	}
	a.redis = rdb
	if closeSessions != nil {
		a.closers = append(a.closers, closeSessions)
	}

	clients := NewProviderClients(cfg.LLM, client, log)
	a.Services = wireServices(log, engine, client, clients, a.Repos, sessions)
	a.Server = wireServer(cfg, log, a.Metrics, wireHandlers(log, a.Services))
	return a, nil
}

// Start launches the background collectors.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Metrics.StartDBCollector(ctx, a.Log, a.sql)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.redis)
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
	return a.Server.Run(a.Cfg.HTTPAddr)
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

// Close stops collectors and releases backends in reverse open order.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	err := a.closeAll(ctx)
	a.Log.Sync()
	return err
}

func (a *App) closeAll(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
