// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package connectivity tracks whether the remote document store is reachable.
//
// The monitor combines two signals: explicit platform notifications delivered
// through SetOnline (network interface up/down) and a periodic authenticated
// probe against the store. Every offline-to-online transition fires the
// registered reconnect hooks, which the sync engine uses to drain its offline
// queue.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-ledger-keeper/internal/logger"
)

// ProbeFunc performs one authenticated round trip to the store. A nil return
// means reachable.
type ProbeFunc func(ctx context.Context) error

// Monitor holds the current online/offline state and notifies hooks on
// reconnect. Safe for concurrent use.
type Monitor struct {
	probe    ProbeFunc
	interval time.Duration

	mu          sync.Mutex
	online      bool
	hooks       []func(ctx context.Context)
	changeHooks []func(ctx context.Context, online bool)

	jobMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewMonitor creates a Monitor that starts in the online state. The periodic
// probe is idle until Start is called.
func NewMonitor(probe ProbeFunc, interval time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		online:   true,
		logger:   log,
	}
}

// Online reports the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a platform connectivity signal. On any transition the
// change hooks fire synchronously, in registration order; a transition from
// offline to online additionally fires the reconnect hooks.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	hooks := m.hooks
	changeHooks := m.changeHooks
	m.mu.Unlock()

	if wasOnline == online {
		return
	}

	m.logger.Info().Bool("online", online).Msg("connectivity state changed")

	for _, hook := range changeHooks {
		hook(ctx, online)
	}

	if online && !wasOnline {
		for _, hook := range hooks {
			hook(ctx)
		}
	}
}

// OnReconnect registers fn to be called on every offline-to-online
// transition.
func (m *Monitor) OnReconnect(fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// OnChange registers fn to be called on every transition, in either
// direction. Change hooks run before reconnect hooks.
func (m *Monitor) OnChange(fn func(ctx context.Context, online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changeHooks = append(m.changeHooks, fn)
}

// Start stops any previously running probe loop, then launches a background
// goroutine that probes the store every interval and feeds the result into
// SetOnline. If interval is zero or negative it defaults to 30 seconds. The
// goroutine exits when ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	interval := m.interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	m.Stop()

	m.jobMu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.jobMu.Unlock()

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				m.SetOnline(jobCtx, m.probe(jobCtx) == nil)
			}
		}
	}()
}

// Stop cancels the probe loop and blocks until it has fully exited. Safe to
// call when the monitor is not running (no-op in that case).
func (m *Monitor) Stop() {
	m.jobMu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.jobMu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}
