package redismanager

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bradhe/stopwatch"
)

// Borrow is a scoped, non-owning reference to a Connection's client handle.
// It carries a counted reservation on the Pool it was acquired from. Release
// must be called exactly once; it is safe to defer immediately after a
// successful GetClient.
type Borrow struct {
	entry    *nodeEntry
	pool     *pool
	client   RedisClient
	released int32
}

// Client returns the handle to use for the duration of the borrow.
func (b *Borrow) Client() RedisClient {
	return b.client
}

// Release returns the reservation to the pool it came from. Calling it more
// than once is a no-op, so it is always safe to `defer borrow.Release()`
// even on error paths that also release explicitly.
func (b *Borrow) Release() {
	if !atomic.CompareAndSwapInt32(&b.released, 0, 1) {
		return
	}

	b.entry.mu.Lock()
	b.pool.releaseOne()
	b.entry.cond.Broadcast()
	b.entry.mu.Unlock()
}

// Dispatcher selects a pool for a caller from the registry and hands out a
// scoped borrow, or surfaces a no-healthy-pool condition when none qualify.
type Dispatcher struct {
	registry *Registry
	emitter  Emitter
}

// NewDispatcher wraps registry with the borrow-selection protocol described
// in SPEC_FULL §4.4.
func NewDispatcher(registry *Registry, emitter Emitter) *Dispatcher {
	return &Dispatcher{registry: registry, emitter: emitter}
}

// GetClient resolves url to a NodeEntry, selects the healthy pool with the
// lowest in-flight count (creating a new pool on demand if capacity allows),
// and returns a scoped Borrow. It blocks, honoring ctx's deadline/
// cancellation, until a pool is available or the deadline elapses.
func (d *Dispatcher) GetClient(ctx context.Context, url string) (*Borrow, error) {
	watch := stopwatch.Start()

	borrow, err := d.getClient(ctx, url)

	elapsed := watch.Stop()
	if d.emitter != nil {
		d.emitter.ObserveConnectionLatency(url, time.Duration(elapsed.Milliseconds())*time.Millisecond)
	}

	return borrow, err
}

func (d *Dispatcher) getClient(ctx context.Context, url string) (*Borrow, error) {
	entry, ok := d.registry.lookup(url)
	if !ok {
		return nil, ErrUnknownNode
	}

	entry.mu.Lock()

	for {
		if entry.closing {
			entry.mu.Unlock()
			return nil, ErrNodeClosing
		}

		if p := selectPool(entry.pools); p != nil {
			if _, ok := p.tryAcquire(); ok {
				client, err := p.conn.getClient()
				entry.mu.Unlock()
				if err != nil {
					return nil, err
				}

				return &Borrow{entry: entry, pool: p, client: client}, nil
			}
		}

		canCreate := len(entry.pools) < d.registry.cfg.MaxPoolsPerNode
		entry.mu.Unlock()

		if canCreate {
			p, err := d.registry.createAndAppendPool(ctx, entry)
			if err == nil {
				entry.mu.Lock()
				if _, ok := p.tryAcquire(); ok {
					client, cerr := p.conn.getClient()
					entry.mu.Unlock()
					if cerr != nil {
						return nil, cerr
					}

					return &Borrow{entry: entry, pool: p, client: client}, nil
				}

				// Another borrower raced us onto the pool we just
				// created; retry selection from the top with entry.mu
				// still held.
				continue
			}
		}

		entry.mu.Lock()
		if err := waitCond(ctx, entry.cond); err != nil {
			entry.mu.Unlock()
			if err == context.DeadlineExceeded || err == context.Canceled {
				return nil, ErrNoHealthyPools
			}

			return nil, err
		}
	}
}

// selectPool scans pools for the first healthy, spare-capacity pool with
// the lowest in-flight count. Ties break toward the earliest position
// because a strictly-lower in-flight count is required to replace the
// current best candidate.
func selectPool(pools []*pool) *pool {
	var best *pool
	bestInFlight := -1

	for _, p := range pools {
		if !p.healthy || p.inFlight >= p.capacity {
			continue
		}

		if best == nil || p.inFlight < bestInFlight {
			best = p
			bestInFlight = p.inFlight
		}
	}

	return best
}
