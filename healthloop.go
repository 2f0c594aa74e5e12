package redismanager

import (
	"context"
	"sync"
	"time"

	"github.com/efritz/glock"
)

// HealthLoop periodically probes every pool across every registered node,
// flips each pool's healthy flag to match the probe outcome, and repairs
// pools that are unhealthy and idle. There is at most one HealthLoop per
// Registry.
type HealthLoop struct {
	registry *Registry
	interval time.Duration
	clock    glock.Clock
	logger   Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewHealthLoop constructs a HealthLoop ticking at interval. It does not
// start running until Start is called.
func NewHealthLoop(registry *Registry, interval time.Duration, clock glock.Clock, logger Logger) *HealthLoop {
	return &HealthLoop{
		registry: registry,
		interval: interval,
		clock:    clock,
		logger:   logger,
	}
}

// Running reports whether the loop is currently active.
func (h *HealthLoop) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Start begins the periodic probe-and-repair loop in a background
// goroutine. Calling Start while already running is a no-op.
func (h *HealthLoop) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return
	}

	h.running = true
	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})

	go h.run(h.stopCh, h.doneCh)
}

// Stop requests termination at the next safe point (between ticks, not
// mid-probe) and blocks until the loop goroutine has exited.
func (h *HealthLoop) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}

	stopCh := h.stopCh
	doneCh := h.doneCh
	h.running = false
	h.mu.Unlock()

	close(stopCh)
	<-doneCh
}

func (h *HealthLoop) run(stopCh chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case <-h.clock.After(h.interval):
			h.tick()
		}
	}
}

func (h *HealthLoop) tick() {
	h.registry.mu.Lock()
	entries := make([]*nodeEntry, 0, len(h.registry.nodes))
	for _, e := range h.registry.nodes {
		entries = append(entries, e)
	}
	h.registry.mu.Unlock()

	for _, entry := range entries {
		h.tickEntry(entry)
	}
}

func (h *HealthLoop) tickEntry(entry *nodeEntry) {
	entry.mu.Lock()
	pools := make([]*pool, len(entry.pools))
	copy(pools, entry.pools)
	entry.mu.Unlock()

	results := make([]error, len(pools))
	for i, p := range pools {
		ctx, cancel := context.WithTimeout(context.Background(), h.registry.cfg.ReadinessTimeout)
		results[i] = p.conn.healthCheck(ctx)
		cancel()
	}

	entry.mu.Lock()
	anyRecovered := false
	for i, p := range pools {
		p.conn.applyHealthCheck(results[i])

		if results[i] == nil {
			if !p.healthy {
				p.healthy = true
				anyRecovered = true
			}
			continue
		}

		p.markUnhealthy()
	}

	var toRepair []*pool
	for _, p := range pools {
		if !p.healthy && p.inFlight == 0 {
			toRepair = append(toRepair, p)
		}
	}
	entry.mu.Unlock()

	for _, p := range toRepair {
		ctx, cancel := context.WithTimeout(context.Background(), h.registry.cfg.ReadinessTimeout)
		err := p.repair(ctx, h.registry.cfg)
		cancel()

		entry.mu.Lock()
		p.applyRepair(err)
		if err == nil {
			anyRecovered = true
			h.logger.Printf("recovered redis connection pool for %s", entry.url)
		} else {
			h.logger.Printf("repair failed for %s: %s", entry.url, err)
		}
		entry.mu.Unlock()
	}

	if anyRecovered {
		entry.mu.Lock()
		entry.cond.Broadcast()
		entry.mu.Unlock()
	}

	h.registry.reportStatus(entry.url, entry)
}
