package redismanager

import "time"

// ClientMode selects whether a Connection dials a single node or a cluster
// seed list. It replaces the dynamic-dispatch use_cluster flag of the
// original implementation with a tagged variant, per the redesign flag in
// the spec this package implements.
type ClientMode int

const (
	// ModeSingleNode dials exactly one node URL.
	ModeSingleNode ClientMode = iota

	// ModeCluster dials every address in StartupNodes.
	ModeCluster
)

// PoolArgs is an opaque, pass-through set of arguments forwarded verbatim to
// the ClientFactory. DefaultClientFactory accepts only the keys it maps to
// redigo dial options and fails with ErrInvalidPoolArgs on any other key.
type PoolArgs map[string]interface{}

// Config holds every scheduling knob the Registry and its maintenance loops
// consult. It is built once with DefaultConfig and customized through
// ConfigFunc options -- there is no process-wide mutable default.
type Config struct {
	InitialPoolsPerNode int
	MaxPoolsPerNode     int
	MinPoolsPerNode     int
	MaxConnectionSize   int

	HealthCheckInterval time.Duration
	CleanupInterval     time.Duration
	MaxIdleTime         time.Duration

	ReadinessTimeout    time.Duration
	ReadinessStep       time.Duration
	ReadinessMaxRetries int

	UseCluster   bool
	StartupNodes []string
	PoolArgs     PoolArgs
}

// DefaultConfig mirrors the defaults of the distilled Python original's
// config.DEFAULT_VALUES.
func DefaultConfig() Config {
	return Config{
		InitialPoolsPerNode: 1,
		MaxPoolsPerNode:     1,
		MinPoolsPerNode:     1,
		MaxConnectionSize:   50,

		HealthCheckInterval: 60 * time.Second,
		CleanupInterval:     120 * time.Second,
		MaxIdleTime:         180 * time.Second,

		ReadinessTimeout:    10 * time.Second,
		ReadinessStep:       250 * time.Millisecond,
		ReadinessMaxRetries: 5,

		UseCluster:   false,
		StartupNodes: nil,
		PoolArgs:     nil,
	}
}

// ConfigFunc customizes a Config in place, in the same functional-option
// shape the teacher's client.go uses for its ConfigFunc/With* pair.
type ConfigFunc func(*Config)

// WithInitialPoolsPerNode sets the number of pools created eagerly by
// AddNode (default 1).
func WithInitialPoolsPerNode(n int) ConfigFunc {
	return func(c *Config) { c.InitialPoolsPerNode = n }
}

// WithMaxPoolsPerNode sets the ceiling on on-demand pool creation
// (default 1).
func WithMaxPoolsPerNode(n int) ConfigFunc {
	return func(c *Config) { c.MaxPoolsPerNode = n }
}

// WithMinPoolsPerNode sets the floor the cleanup loop will not shrink below
// (default 1).
func WithMinPoolsPerNode(n int) ConfigFunc {
	return func(c *Config) { c.MinPoolsPerNode = n }
}

// WithMaxConnectionSize sets the per-pool borrow capacity (default 50).
func WithMaxConnectionSize(n int) ConfigFunc {
	return func(c *Config) { c.MaxConnectionSize = n }
}

// WithHealthCheckInterval sets the HealthLoop tick period (default 60s).
func WithHealthCheckInterval(d time.Duration) ConfigFunc {
	return func(c *Config) { c.HealthCheckInterval = d }
}

// WithCleanupInterval sets the CleanupLoop tick period (default 120s).
func WithCleanupInterval(d time.Duration) ConfigFunc {
	return func(c *Config) { c.CleanupInterval = d }
}

// WithMaxIdleTime sets the idle duration past which a pool becomes
// closable by the cleanup loop (default 180s).
func WithMaxIdleTime(d time.Duration) ConfigFunc {
	return func(c *Config) { c.MaxIdleTime = d }
}

// WithReadiness sets the readiness-wait timeout, retry step, and maximum
// retry count (defaults 10s, 250ms, 5).
func WithReadiness(timeout, step time.Duration, maxRetries int) ConfigFunc {
	return func(c *Config) {
		c.ReadinessTimeout = timeout
		c.ReadinessStep = step
		c.ReadinessMaxRetries = maxRetries
	}
}

// WithCluster enables cluster mode against the given seed node addresses.
func WithCluster(seedNodes ...string) ConfigFunc {
	return func(c *Config) {
		c.UseCluster = true
		c.StartupNodes = seedNodes
	}
}

// WithPoolArgs sets the opaque pass-through options forwarded to the
// client factory.
func WithPoolArgs(args PoolArgs) ConfigFunc {
	return func(c *Config) { c.PoolArgs = args }
}
