package redismanager

import (
	"context"
	"sync"
	"time"

	"github.com/efritz/glock"
)

// nodeEntry owns the ordered pool list for one node URL, plus the mutex and
// condition variable every structural mutation and wait is serialized
// through.
type nodeEntry struct {
	url     string
	pools   []*pool
	mu      sync.Mutex
	cond    *sync.Cond
	closing bool
}

func newNodeEntry(url string) *nodeEntry {
	e := &nodeEntry{url: url}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// PoolStatus is a snapshot of one pool within a node's report.
type PoolStatus struct {
	InFlight int
	Healthy  bool
	Capacity int
}

// NodeStatus is a snapshot of one node's pools, returned by
// Registry.FetchPoolStatus.
type NodeStatus struct {
	TotalPools      int
	HealthyPools    int
	UnhealthyPools  int
	TotalInFlight   int
	TotalCapacity   int
	Pools           []PoolStatus
}

// Registry maps node URLs to their nodeEntry and owns per-node creation and
// teardown. It is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	nodes map[string]*nodeEntry

	cfg     Config
	factory ClientFactory
	breaker BreakerFunc
	clock   glock.Clock
	logger  Logger
	emitter Emitter
}

// NewRegistry constructs an empty Registry. cfg, factory, breaker, clock,
// logger, and emitter are all already resolved by the caller (Manager);
// Registry applies no further defaulting.
func NewRegistry(cfg Config, factory ClientFactory, breaker BreakerFunc, clock glock.Clock, logger Logger, emitter Emitter) *Registry {
	return &Registry{
		nodes:   make(map[string]*nodeEntry),
		cfg:     cfg,
		factory: factory,
		breaker: breaker,
		clock:   clock,
		logger:  logger,
		emitter: emitter,
	}
}

func (r *Registry) lookup(url string) (*nodeEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.nodes[url]
	return entry, ok
}

// AddNode brings up InitialPoolsPerNode pools for url in parallel. If url is
// already registered this is a no-op. If not even one pool becomes ready
// before timeout elapses, every partially constructed pool is closed and
// ErrAddNodeTimeout is returned.
func (r *Registry) AddNode(ctx context.Context, url string, timeout time.Duration) error {
	r.mu.Lock()
	if _, ok := r.nodes[url]; ok {
		r.mu.Unlock()
		return nil
	}

	entry := newNodeEntry(url)
	r.nodes[url] = entry
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	count := r.cfg.InitialPoolsPerNode
	pools := make([]*pool, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := r.buildPool(ctx, url)
			pools[i] = p
			errs[i] = err
		}(i)
	}
	wg.Wait()

	var ready []*pool
	for i, err := range errs {
		if err == nil {
			ready = append(ready, pools[i])
		}
	}

	if len(ready) == 0 {
		for _, p := range pools {
			if p != nil {
				p.closePool()
			}
		}

		r.mu.Lock()
		delete(r.nodes, url)
		r.mu.Unlock()

		return ErrAddNodeTimeout
	}

	entry.mu.Lock()
	entry.pools = ready
	entry.mu.Unlock()

	r.reportStatus(url, entry)
	return nil
}

// buildPool constructs a connection and pool for url and waits for
// readiness. On failure the partially constructed connection is already
// torn down by waitForReady itself (it never leaves a live client behind on
// exhaustion).
func (r *Registry) buildPool(ctx context.Context, url string) (*pool, error) {
	conn := newConnection(url, r.cfg.MaxConnectionSize, r.mode(), r.cfg.StartupNodes, r.cfg.PoolArgs, r.factory, r.breaker, r.clock, r.logger, r.emitter)

	if _, err := conn.waitForReady(ctx, r.cfg.ReadinessTimeout, r.cfg.ReadinessStep, r.cfg.ReadinessMaxRetries); err != nil {
		return newPool(conn, r.cfg.MaxConnectionSize, r.clock), err
	}

	p := newPool(conn, r.cfg.MaxConnectionSize, r.clock)
	return p, nil
}

func (r *Registry) mode() ClientMode {
	if r.cfg.UseCluster {
		return ModeCluster
	}

	return ModeSingleNode
}

// createAndAppendPool synchronously creates one additional pool for url and
// appends it to the entry's pool list. The caller must NOT hold entry.mu;
// this method acquires it only to append.
func (r *Registry) createAndAppendPool(ctx context.Context, entry *nodeEntry) (*pool, error) {
	p, err := r.buildPool(ctx, entry.url)
	if err != nil {
		p.closePool()
		return nil, err
	}

	entry.mu.Lock()
	entry.pools = append(entry.pools, p)
	entry.cond.Broadcast()
	entry.mu.Unlock()

	return p, nil
}

// FetchPoolStatus snapshots every node's pools. Each node is visited under
// its own mutex for no longer than a single acquisition.
func (r *Registry) FetchPoolStatus() map[string]NodeStatus {
	r.mu.Lock()
	entries := make([]*nodeEntry, 0, len(r.nodes))
	for _, e := range r.nodes {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	result := make(map[string]NodeStatus, len(entries))
	for _, entry := range entries {
		result[entry.url] = r.snapshot(entry)
	}

	return result
}

func (r *Registry) snapshot(entry *nodeEntry) NodeStatus {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	status := NodeStatus{TotalPools: len(entry.pools)}
	for _, p := range entry.pools {
		status.Pools = append(status.Pools, PoolStatus{InFlight: p.inFlight, Healthy: p.healthy, Capacity: p.capacity})
		status.TotalInFlight += p.inFlight
		status.TotalCapacity += p.capacity
		if p.healthy {
			status.HealthyPools++
		} else {
			status.UnhealthyPools++
		}
	}

	return status
}

func (r *Registry) reportStatus(url string, entry *nodeEntry) {
	if r.emitter == nil {
		return
	}

	status := r.snapshot(entry)
	now := r.clock.Now()

	idle := 0
	entry.mu.Lock()
	for _, p := range entry.pools {
		if p.inFlight == 0 && p.idleFor(now) > r.cfg.MaxIdleTime {
			idle++
		}
	}
	entry.mu.Unlock()

	r.emitter.SetPoolSize(url, status.TotalPools)
	r.emitter.SetPoolActive(url, status.TotalInFlight)
	r.emitter.SetPoolHealthy(url, status.HealthyPools)
	r.emitter.SetPoolUnhealthy(url, status.UnhealthyPools)
	r.emitter.SetPoolIdle(url, idle)
}

// CloseNode marks url as closing, waits for every outstanding borrow to
// release, then closes every pool and removes the entry. Safe to call more
// than once; the second call finds nothing registered and returns nil.
func (r *Registry) CloseNode(ctx context.Context, url string) error {
	entry, ok := r.lookup(url)
	if !ok {
		return nil
	}

	entry.mu.Lock()
	entry.closing = true

	for {
		drained := true
		for _, p := range entry.pools {
			if p.inFlight > 0 {
				drained = false
				break
			}
		}

		if drained {
			break
		}

		if err := waitCond(ctx, entry.cond); err != nil {
			entry.mu.Unlock()
			return err
		}
	}

	pools := entry.pools
	entry.pools = nil
	entry.mu.Unlock()

	for _, p := range pools {
		p.closePool()
	}

	r.mu.Lock()
	delete(r.nodes, url)
	r.mu.Unlock()

	return nil
}

// CloseAll closes every registered node. Safe to call more than once.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	urls := make([]string, 0, len(r.nodes))
	for url := range r.nodes {
		urls = append(urls, url)
	}
	r.mu.Unlock()

	var firstErr error
	for _, url := range urls {
		if err := r.CloseNode(ctx, url); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// waitCond blocks on cond.Wait(), honoring ctx cancellation by forcing a
// wakeup (via context.AfterFunc) so the caller can re-check ctx.Err(). The
// caller must hold cond.L when calling this, exactly as with a bare
// cond.Wait().
func waitCond(ctx context.Context, cond *sync.Cond) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
	defer stop()

	cond.Wait()

	return ctx.Err()
}
