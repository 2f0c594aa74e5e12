package iface

import "time"

// Emitter is the pluggable observability sink the pool manager reports
// through. It is not part of the core contract -- a nil-op implementation is
// the default, and the shipped PrometheusEmitter is an optional collaborator.
type Emitter interface {
	// SetPoolSize reports the total number of pools for a node.
	SetPoolSize(nodeURL string, total int)

	// SetPoolActive reports the number of in-flight borrows summed across
	// a node's pools.
	SetPoolActive(nodeURL string, active int)

	// SetPoolIdle reports the number of pools that have been idle (no
	// in-flight borrows and past the idle threshold) for a node.
	SetPoolIdle(nodeURL string, idle int)

	// SetPoolHealthy reports the number of healthy pools for a node.
	SetPoolHealthy(nodeURL string, healthy int)

	// SetPoolUnhealthy reports the number of unhealthy pools for a node.
	SetPoolUnhealthy(nodeURL string, unhealthy int)

	// IncConnectionsCreated increments the count of connections
	// successfully established for a node.
	IncConnectionsCreated(nodeURL string)

	// IncFailedConnections increments the count of failed connection
	// attempts for a node.
	IncFailedConnections(nodeURL string)

	// ObserveConnectionLatency records the time spent acquiring a
	// connection (GetClient) for a node.
	ObserveConnectionLatency(nodeURL string, latency time.Duration)

	// IncIdleCleanupEvents increments the count of pools closed by the
	// cleanup loop for a node.
	IncIdleCleanupEvents(nodeURL string)
}
