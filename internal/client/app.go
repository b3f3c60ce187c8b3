package client

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-ledger-keeper/internal/adapter"
	"github.com/MKhiriev/go-ledger-keeper/internal/broadcast"
	"github.com/MKhiriev/go-ledger-keeper/internal/config"
	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/MKhiriev/go-ledger-keeper/internal/service"
	"github.com/MKhiriev/go-ledger-keeper/internal/store"
	"github.com/MKhiriev/go-ledger-keeper/internal/workers"
)

// shutdownFlushTimeout bounds the final ForceSync attempted on exit.
const shutdownFlushTimeout = 10 * time.Second

type App struct {
	services *service.Services
	remote   adapter.RemoteStore
	caster   *broadcast.SpoolBroadcaster
	db       *store.DB
	version  string

	logger *logger.Logger
}

func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	remote, err := adapter.NewGitHubStore(cfg.Store, log.WithComponent("store"))
	if err != nil {
		return nil, fmt.Errorf("create remote store: %w", err)
	}

	db, err := store.NewConnectSQLite(context.Background(), cfg.Storage.DB, log.WithComponent("sqlite"))
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate local storage: %w", err)
	}

	queue := store.NewOfflineQueue(db, log.WithComponent("offline-queue"))

	caster, err := broadcast.NewSpoolBroadcaster(cfg.Broadcast, cfg.Engine.FreshnessWindow, log.WithComponent("broadcast"))
	if err != nil {
		return nil, fmt.Errorf("create broadcaster: %w", err)
	}

	return &App{
		services: service.NewServices(remote, queue, caster, cfg.Engine, log),
		remote:   remote,
		caster:   caster,
		db:       db,
		version:  cfg.App.Version,
		logger:   log,
	}, nil
}

// Run implements [Client]. It verifies the store credential, starts the
// background workers, bootstraps the snapshot, and blocks until a stop signal
// arrives. On shutdown it attempts one final flush of unsaved changes.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	a.logger.Info().Str("version", a.version).Msg("client starting")

	if err := a.remote.VerifyCredential(ctx); err != nil {
		return fmt.Errorf("verify store credential: %w", err)
	}

	if err := a.caster.Start(); err != nil {
		return fmt.Errorf("start broadcaster: %w", err)
	}

	engine := a.services.Engine

	// Воркеры живут дольше сигнального контекста: финальный ForceSync ещё
	// должен пройти через save-воркер движка.
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	workers.NewWorkers(
		workers.WorkerFunc(engine.Run),
		workers.WorkerFunc(a.services.Monitor.Start),
	).Run(runCtx)

	if err := engine.Bootstrap(ctx); err != nil {
		// запускаемся в оффлайне, очередь догонит хранилище при реконнекте
		a.logger.Warn().Err(err).Msg("bootstrap failed, starting offline")
	}

	<-ctx.Done()
	a.logger.Info().Msg("shutting down...")

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
	defer cancel()
	if err := engine.ForceSync(flushCtx); err != nil {
		a.logger.Err(err).Msg("final flush failed, unsaved changes remain queued")
	}
	cancelRun()

	a.services.Monitor.Stop()
	engine.Stop()
	if err := a.caster.Stop(); err != nil {
		a.logger.Err(err).Msg("broadcaster stop failed")
	}
	if err := a.db.Close(); err != nil {
		a.logger.Err(err).Msg("local storage close failed")
	}

	a.logger.Info().Msg("client shutdown gracefully")
	return nil
}
