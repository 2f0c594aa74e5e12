package redismanager

import (
	"context"
	"sync"
	"time"

	"github.com/efritz/glock"
	"github.com/efritz/overcurrent"
)

// BreakerFunc bridges the interface between the Call function of an
// overcurrent breaker and an overcurrent registry, identical in shape to
// the teacher's pool.go BreakerFunc.
type BreakerFunc func(overcurrent.BreakerFunc) error

func noopBreakerFunc(f overcurrent.BreakerFunc) error {
	return f(context.Background())
}

// connection wraps one underlying RedisClient handle and tracks whether it
// is currently believed live. It is owned by exactly one Pool.
//
// mu guards client and ready and, same as the teacher's pool.mutex around
// its dial call, is held for the duration of whatever network call is
// touching the handle (Ping, Close). That serializes probes against close
// at the connection level without requiring the owning nodeEntry's mutex,
// so a health check and a concurrent close can never run against the same
// client simultaneously.
type connection struct {
	url         string
	capacity    int
	mode        ClientMode
	seedNodes   []string
	poolArgs    PoolArgs
	factory     ClientFactory
	breakerFunc BreakerFunc
	clock       glock.Clock
	logger      Logger
	emitter     Emitter

	mu     sync.Mutex
	client RedisClient
	ready  bool
}

func newConnection(
	url string,
	capacity int,
	mode ClientMode,
	seedNodes []string,
	poolArgs PoolArgs,
	factory ClientFactory,
	breakerFunc BreakerFunc,
	clock glock.Clock,
	logger Logger,
	emitter Emitter,
) *connection {
	if breakerFunc == nil {
		breakerFunc = noopBreakerFunc
	}

	return &connection{
		url:         url,
		capacity:    capacity,
		mode:        mode,
		seedNodes:   seedNodes,
		poolArgs:    poolArgs,
		factory:     factory,
		breakerFunc: breakerFunc,
		clock:       clock,
		logger:      logger,
		emitter:     emitter,
	}
}

// logAddr returns the address used in diagnostic messages: the node URL in
// single-node mode, or a representative seed in cluster mode (the full seed
// list is rarely useful in a single log line).
func (c *connection) logAddr() string {
	if c.mode == ModeCluster {
		return chooseRandom(c.seedNodes)
	}

	return c.url
}

// waitForReady attempts to construct the underlying client, retrying with a
// doubling backoff until timeout elapses, maxRetries is exhausted, or ctx is
// canceled. On success it sets ready=true and returns the elapsed time.
func (c *connection) waitForReady(ctx context.Context, timeout, step time.Duration, maxRetries int) (time.Duration, error) {
	start := c.clock.Now()
	attempt := 0

	for {
		client, err := c.dial()
		if err == nil {
			if pingErr := client.Ping(ctx); pingErr == nil {
				c.mu.Lock()
				c.client = client
				c.ready = true
				c.mu.Unlock()

				if c.emitter != nil {
					c.emitter.IncConnectionsCreated(c.url)
				}

				elapsed := c.clock.Now().Sub(start)
				c.logger.Printf("redis connection ready in %s for %s", elapsed, c.logAddr())
				return elapsed, nil
			}

			client.Close()
		}

		if c.emitter != nil {
			c.emitter.IncFailedConnections(c.url)
		}

		attempt++
		elapsed := c.clock.Now().Sub(start)
		if elapsed >= timeout || attempt >= maxRetries {
			c.mu.Lock()
			c.ready = false
			c.mu.Unlock()
			c.logger.Printf("redis connection not ready for %s after %d attempts (%s)", c.logAddr(), attempt, elapsed)
			return elapsed, ErrNotReady
		}

		sleep := step * time.Duration(int64(1)<<uint(attempt-1))

		select {
		case <-c.clock.After(sleep):
		case <-ctx.Done():
			c.mu.Lock()
			c.ready = false
			c.mu.Unlock()
			return c.clock.Now().Sub(start), ctx.Err()
		}
	}
}

func (c *connection) dial() (RedisClient, error) {
	var client RedisClient

	err := c.breakerFunc(func(ctx context.Context) error {
		conn, dialErr := c.factory(c.url, c.capacity, c.mode, c.seedNodes, c.poolArgs)
		client = conn
		return dialErr
	})

	if err != nil {
		return nil, err
	}

	return client, nil
}

// healthCheck issues a single, non-retrying probe against the current
// client. It never attempts to redial. Callers run this without holding the
// owning nodeEntry's mutex (the probe may block on network I/O); it reports
// the outcome without mutating pool-visible state (the caller applies the
// result under the nodeEntry's mutex via applyHealthCheck, the same way
// pool.applyRepair is applied after an unlocked repair). c.mu is held for
// the duration of the Ping call so a concurrent close cannot tear down the
// client out from under it.
func (c *connection) healthCheck(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return ErrUnhealthy
	}

	if err := c.client.Ping(ctx); err != nil {
		c.logger.Printf("health check failed for %s: %s", c.logAddr(), err)
		return ErrUnhealthy
	}

	return nil
}

// applyHealthCheck records the outcome of a prior healthCheck call. Callers
// normally hold the owning nodeEntry's mutex when calling this, to keep it
// in step with the pool's healthy flag.
func (c *connection) applyHealthCheck(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = err == nil
}

// getClient returns the current handle, or ErrNotReady if none has been
// established yet.
func (c *connection) getClient() (RedisClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready || c.client == nil {
		return nil, ErrNotReady
	}

	return c.client, nil
}

// close is idempotent: repeated calls after the first are a no-op. It holds
// c.mu for the duration of the underlying Close call, so it can never run
// concurrently with a healthCheck probe against the same client.
func (c *connection) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		c.ready = false
		return nil
	}

	err := c.client.Close()
	c.client = nil
	c.ready = false
	return err
}
