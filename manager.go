package redismanager

import (
	"context"
	"time"

	"github.com/efritz/glock"
	"github.com/efritz/overcurrent"
)

// Manager is the single entry point applications construct: it owns one
// Registry, one Dispatcher, and (optionally running) one HealthLoop and one
// CleanupLoop. It mirrors the public surface of the distilled Python
// original's RedisManager class, built the way the teacher's client.go
// builds NewClient -- a functional-options constructor.
type Manager struct {
	cfg        Config
	registry   *Registry
	dispatcher *Dispatcher
	health     *HealthLoop
	cleanup    *CleanupLoop
	logger     Logger
	emitter    Emitter
}

type managerConfig struct {
	cfg     Config
	factory ClientFactory
	breaker BreakerFunc
	clock   glock.Clock
	logger  Logger
	emitter Emitter

	autoStartHealthChecks bool
}

// ManagerOption customizes a Manager at construction time.
type ManagerOption func(*managerConfig)

// WithConfig overrides the default Config.
func WithConfig(cfg Config) ManagerOption {
	return func(m *managerConfig) { m.cfg = cfg }
}

// WithClientFactory overrides the default redigo-backed ClientFactory.
func WithClientFactory(factory ClientFactory) ManagerOption {
	return func(m *managerConfig) { m.factory = factory }
}

// WithManagerBreaker sets the overcurrent circuit breaker wrapped around
// every dial attempt. The default uses a no-op breaker.
func WithManagerBreaker(breaker overcurrent.CircuitBreaker) ManagerOption {
	return func(m *managerConfig) {
		m.breaker = breaker.Call
	}
}

// WithManagerBreakerRegistry sets the overcurrent registry and the name of
// the breaker config to use around every dial attempt.
func WithManagerBreakerRegistry(registry overcurrent.Registry, name string) ManagerOption {
	return func(m *managerConfig) {
		m.breaker = func(f overcurrent.BreakerFunc) error {
			return registry.Call(name, f, nil)
		}
	}
}

// WithManagerLogger sets the Logger every component writes through. The
// default writes to the standard library's log package.
func WithManagerLogger(logger Logger) ManagerOption {
	return func(m *managerConfig) { m.logger = logger }
}

// WithEmitter sets the observability sink. The default discards every
// observation.
func WithEmitter(emitter Emitter) ManagerOption {
	return func(m *managerConfig) { m.emitter = emitter }
}

// WithAutoStartHealthChecks controls whether NewManager starts the
// HealthLoop immediately (default true, matching the Python original's
// constructor behavior).
func WithAutoStartHealthChecks(enabled bool) ManagerOption {
	return func(m *managerConfig) { m.autoStartHealthChecks = enabled }
}

// WithManagerClock overrides the clock every component reads time and
// schedules timers through. Tests substitute glock.NewMockClock() here for
// deterministic control over backoff, health-check, and cleanup timing.
func WithManagerClock(clock glock.Clock) ManagerOption {
	return func(m *managerConfig) { m.clock = clock }
}

// NewManager constructs a Manager. Health checks are started automatically
// unless WithAutoStartHealthChecks(false) is passed, matching the Python
// original's constructor, which calls start_health_checks() unconditionally.
func NewManager(opts ...ManagerOption) *Manager {
	mc := &managerConfig{
		cfg:                   DefaultConfig(),
		factory:               DefaultClientFactory(),
		breaker:               noopBreakerFunc,
		clock:                 glock.NewRealClock(),
		logger:                NewDefaultLogger(),
		emitter:               NewNilEmitter(),
		autoStartHealthChecks: true,
	}

	for _, opt := range opts {
		opt(mc)
	}

	registry := NewRegistry(mc.cfg, mc.factory, mc.breaker, mc.clock, mc.logger, mc.emitter)
	dispatcher := NewDispatcher(registry, mc.emitter)

	m := &Manager{
		cfg:        mc.cfg,
		registry:   registry,
		dispatcher: dispatcher,
		health:     NewHealthLoop(registry, mc.cfg.HealthCheckInterval, mc.clock, mc.logger),
		cleanup:    NewCleanupLoop(registry, mc.cfg.CleanupInterval, mc.clock, mc.logger),
		logger:     mc.logger,
		emitter:    mc.emitter,
	}

	if mc.autoStartHealthChecks {
		m.StartHealthChecks()
	}

	return m
}

// AddNode registers a node URL and brings up its initial pools. timeout
// bounds the whole operation; if it is zero, 10 seconds is used (matching
// the Python original's default timeout_sec).
func (m *Manager) AddNode(ctx context.Context, url string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return m.registry.AddNode(ctx, url, timeout)
}

// GetClient borrows a client for url, blocking (subject to ctx) until one is
// available. Callers must call borrow.Release() exactly once, typically via
// defer.
func (m *Manager) GetClient(ctx context.Context, url string) (*Borrow, error) {
	return m.dispatcher.GetClient(ctx, url)
}

// FetchPoolStatus returns a snapshot of every registered node's pools.
func (m *Manager) FetchPoolStatus() map[string]NodeStatus {
	return m.registry.FetchPoolStatus()
}

// CloseNode drains and closes every pool for url, then removes it from the
// registry. Safe to call more than once.
func (m *Manager) CloseNode(ctx context.Context, url string) error {
	return m.registry.CloseNode(ctx, url)
}

// CloseAll stops both maintenance loops and closes every registered node.
// Safe to call more than once.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.StopHealthChecks()
	m.StopCleanup()
	return m.registry.CloseAll(ctx)
}

// IsHealthCheckRunning reports whether the HealthLoop is active.
func (m *Manager) IsHealthCheckRunning() bool {
	return m.health.Running()
}

// IsCleanupRunning reports whether the CleanupLoop is active.
func (m *Manager) IsCleanupRunning() bool {
	return m.cleanup.Running()
}

// StartHealthChecks starts the HealthLoop if it is not already running.
func (m *Manager) StartHealthChecks() {
	m.health.Start()
}

// StartCleanup starts the CleanupLoop if it is not already running. Unlike
// health checks, cleanup must be explicitly started -- matching the Python
// original, which only auto-starts health checks in its constructor.
func (m *Manager) StartCleanup() {
	m.cleanup.Start()
}

// StopHealthChecks stops the HealthLoop if it is running.
func (m *Manager) StopHealthChecks() {
	m.health.Stop()
}

// StopCleanup stops the CleanupLoop if it is running.
func (m *Manager) StopCleanup() {
	m.cleanup.Stop()
}
