package service

import (
	"github.com/MKhiriev/go-ledger-keeper/internal/adapter"
	"github.com/MKhiriev/go-ledger-keeper/internal/broadcast"
	"github.com/MKhiriev/go-ledger-keeper/internal/cache"
	"github.com/MKhiriev/go-ledger-keeper/internal/config"
	"github.com/MKhiriev/go-ledger-keeper/internal/connectivity"
	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
	"github.com/MKhiriev/go-ledger-keeper/internal/store"
)

type Services struct {
	Engine  SyncEngine
	Merger  ConflictMerger
	Monitor *connectivity.Monitor
}

func NewServices(
	remote adapter.RemoteStore,
	queue store.OfflineQueue,
	caster broadcast.Broadcaster,
	cfg config.Engine,
	log *logger.Logger,
) *Services {
	merger := NewLocalWinsMerger()
	monitor := connectivity.NewMonitor(remote.ProbeConnectivity, cfg.ProbeInterval, log.WithComponent("connectivity"))
	docCache := cache.NewDocumentCache(cfg.CacheTTL)
	engine := NewSyncEngine(remote, docCache, queue, merger, monitor, caster, cfg, log.WithComponent("engine"))

	return &Services{
		Engine:  engine,
		Merger:  merger,
		Monitor: monitor,
	}
}
