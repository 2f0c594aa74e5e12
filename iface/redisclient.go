package iface

import "context"

// RedisClient abstracts a single underlying connection (or cluster handle)
// obtained from the Redis client library. It is the only surface the pool
// manager borrows from the wire layer: it never parses a RESP reply or
// exposes a data-type operation.
type RedisClient interface {
	// Ping issues a lightweight liveness probe against the remote server.
	Ping(ctx context.Context) error

	// Close releases the underlying connection. Idempotent.
	Close() error
}
