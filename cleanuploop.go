package redismanager

import (
	"sync"
	"time"

	"github.com/efritz/glock"
)

// CleanupLoop periodically prunes idle pools down to each node's
// MinPoolsPerNode floor. There is at most one CleanupLoop per Registry.
type CleanupLoop struct {
	registry *Registry
	interval time.Duration
	clock    glock.Clock
	logger   Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewCleanupLoop constructs a CleanupLoop ticking at interval. It does not
// start running until Start is called.
func NewCleanupLoop(registry *Registry, interval time.Duration, clock glock.Clock, logger Logger) *CleanupLoop {
	return &CleanupLoop{
		registry: registry,
		interval: interval,
		clock:    clock,
		logger:   logger,
	}
}

// Running reports whether the loop is currently active.
func (c *CleanupLoop) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start begins the periodic idle-pruning loop in a background goroutine.
// Calling Start while already running is a no-op.
func (c *CleanupLoop) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	c.running = true
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})

	go c.run(c.stopCh, c.doneCh)
}

// Stop requests termination at the next safe point and blocks until the
// loop goroutine has exited.
func (c *CleanupLoop) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}

	stopCh := c.stopCh
	doneCh := c.doneCh
	c.running = false
	c.mu.Unlock()

	close(stopCh)
	<-doneCh
}

func (c *CleanupLoop) run(stopCh chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case <-c.clock.After(c.interval):
			c.tick()
		}
	}
}

func (c *CleanupLoop) tick() {
	c.registry.mu.Lock()
	entries := make([]*nodeEntry, 0, len(c.registry.nodes))
	for _, e := range c.registry.nodes {
		entries = append(entries, e)
	}
	c.registry.mu.Unlock()

	for _, entry := range entries {
		c.tickEntry(entry)
	}
}

func (c *CleanupLoop) tickEntry(entry *nodeEntry) {
	now := c.clock.Now()

	entry.mu.Lock()

	total := len(entry.pools)
	var keep, candidates []*pool
	for _, p := range entry.pools {
		if p.inFlight == 0 && p.idleFor(now) > c.registry.cfg.MaxIdleTime {
			candidates = append(candidates, p)
		} else {
			keep = append(keep, p)
		}
	}

	// Only remove as many candidates as leave at least MinPoolsPerNode
	// pools standing for this node.
	removable := total - c.registry.cfg.MinPoolsPerNode
	if removable < 0 {
		removable = 0
	}
	if removable > len(candidates) {
		removable = len(candidates)
	}

	closable := candidates[:removable]
	entry.pools = append(keep, candidates[removable:]...)
	entry.cond.Broadcast()
	entry.mu.Unlock()

	for _, p := range closable {
		p.closePool()
		c.logger.Printf("removed idle redis connection pool for %s", entry.url)
		if c.registry.emitter != nil {
			c.registry.emitter.IncIdleCleanupEvents(entry.url)
		}
	}

	c.registry.reportStatus(entry.url, entry)
}
