package redismanager

import (
	"context"
	"time"

	"github.com/efritz/glock"
)

// pool is a fixed-capacity bag of borrows backed by exactly one connection.
// The methods that read or write inFlight, healthy, lastUsed or gen assume
// the caller already holds the owning nodeEntry's mutex; repair and
// closePool touch only the connection and are called without it. pool never
// locks on its own.
type pool struct {
	conn     *connection
	capacity int
	inFlight int
	lastUsed time.Time
	healthy  bool
	gen      int

	clock glock.Clock
}

func newPool(conn *connection, capacity int, clock glock.Clock) *pool {
	return &pool{
		conn:     conn,
		capacity: capacity,
		healthy:  true,
		lastUsed: clock.Now(),
		clock:    clock,
	}
}

// tryAcquire returns a reservation if the pool is healthy and has spare
// capacity. The caller must already hold the owning nodeEntry's mutex.
func (p *pool) tryAcquire() (generation int, ok bool) {
	if !p.healthy || p.inFlight >= p.capacity {
		return 0, false
	}

	p.inFlight++
	p.lastUsed = p.clock.Now()
	return p.gen, true
}

// releaseOne decrements the in-flight count. It must be called exactly
// once for every successful tryAcquire.
func (p *pool) releaseOne() {
	if p.inFlight > 0 {
		p.inFlight--
	}

	p.lastUsed = p.clock.Now()
}

func (p *pool) markUnhealthy() {
	p.healthy = false
}

// repair closes the existing connection and brings up a fresh one in its
// place. It performs the dial and readiness wait -- both of which may block
// on network I/O -- so callers MUST invoke it without holding the owning
// nodeEntry's mutex. It does not itself flip healthy or bump gen; the
// caller applies those under the mutex once repair returns, per SPEC_FULL's
// resolution of the health-check/repair race (§9).
//
// Preconditions (checked by the caller under the mutex before calling):
// healthy == false and inFlight == 0.
func (p *pool) repair(ctx context.Context, cfg Config) error {
	p.conn.close()
	_, err := p.conn.waitForReady(ctx, cfg.ReadinessTimeout, cfg.ReadinessStep, cfg.ReadinessMaxRetries)
	return err
}

// applyRepair records the outcome of a prior repair call under the owning
// nodeEntry's mutex.
func (p *pool) applyRepair(err error) {
	if err != nil {
		return
	}

	p.healthy = true
	p.gen++
}

// closePool tears down the underlying connection. Precondition (checked by
// the caller): inFlight == 0.
func (p *pool) closePool() error {
	return p.conn.close()
}

func (p *pool) idleFor(now time.Time) time.Duration {
	return now.Sub(p.lastUsed)
}
