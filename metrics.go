package redismanager

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yokha/redis-manager/iface"
)

// Emitter is the pluggable observability sink described in SPEC_FULL §6. It
// is not part of the core contract.
type Emitter = iface.Emitter

type nilEmitter struct{}

// NewNilEmitter returns an Emitter that discards every observation. It is
// the default used when no Emitter is configured on the Manager.
func NewNilEmitter() Emitter { return nilEmitter{} }

func (nilEmitter) SetPoolSize(string, int) {}
func (nilEmitter) SetPoolActive(string, int) {}
func (nilEmitter) SetPoolIdle(string, int) {}
func (nilEmitter) SetPoolHealthy(string, int) {}
func (nilEmitter) SetPoolUnhealthy(string, int) {}
func (nilEmitter) IncConnectionsCreated(string) {}
func (nilEmitter) IncFailedConnections(string) {}
func (nilEmitter) ObserveConnectionLatency(string, time.Duration) {}
func (nilEmitter) IncIdleCleanupEvents(string) {}

// PrometheusEmitter backs Emitter with github.com/prometheus/client_golang,
// using the same metric names as the distilled Python original's
// prometheus_metrics.py.
type PrometheusEmitter struct {
	poolSize           *prometheus.GaugeVec
	poolActive         *prometheus.GaugeVec
	poolIdle           *prometheus.GaugeVec
	poolHealthy        *prometheus.GaugeVec
	poolUnhealthy      *prometheus.GaugeVec
	connectionsCreated *prometheus.CounterVec
	failedConnections  *prometheus.CounterVec
	connectionLatency  *prometheus.HistogramVec
	idleCleanupEvents  *prometheus.CounterVec
}

// NewPrometheusEmitter registers the pool manager's metric set against reg
// and returns an Emitter backed by it.
func NewPrometheusEmitter(reg prometheus.Registerer) *PrometheusEmitter {
	labels := []string{"node_redis_url"}

	e := &PrometheusEmitter{
		poolSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "redis_pool_size",
			Help: "Total number of connection pools",
		}, labels),
		poolActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "redis_pool_active",
			Help: "Number of active connections in the pool",
		}, labels),
		poolIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "redis_pool_idle",
			Help: "Number of idle connections in the pool",
		}, labels),
		poolHealthy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "redis_pool_healthy",
			Help: "Number of healthy pools",
		}, labels),
		poolUnhealthy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "redis_pool_unhealthy",
			Help: "Number of unhealthy pools",
		}, labels),
		connectionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redis_connections_created",
			Help: "Total number of connections created",
		}, labels),
		failedConnections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redis_failed_connections",
			Help: "Total number of failed connection attempts",
		}, labels),
		connectionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "redis_connection_latency_seconds",
			Help: "Connection acquisition latency in seconds",
		}, labels),
		idleCleanupEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redis_idle_cleanup_events",
			Help: "Total number of idle cleanup events",
		}, labels),
	}

	reg.MustRegister(
		e.poolSize,
		e.poolActive,
		e.poolIdle,
		e.poolHealthy,
		e.poolUnhealthy,
		e.connectionsCreated,
		e.failedConnections,
		e.connectionLatency,
		e.idleCleanupEvents,
	)

	return e
}

func (e *PrometheusEmitter) SetPoolSize(nodeURL string, total int) {
	e.poolSize.WithLabelValues(nodeURL).Set(float64(total))
}

func (e *PrometheusEmitter) SetPoolActive(nodeURL string, active int) {
	e.poolActive.WithLabelValues(nodeURL).Set(float64(active))
}

func (e *PrometheusEmitter) SetPoolIdle(nodeURL string, idle int) {
	e.poolIdle.WithLabelValues(nodeURL).Set(float64(idle))
}

func (e *PrometheusEmitter) SetPoolHealthy(nodeURL string, healthy int) {
	e.poolHealthy.WithLabelValues(nodeURL).Set(float64(healthy))
}

func (e *PrometheusEmitter) SetPoolUnhealthy(nodeURL string, unhealthy int) {
	e.poolUnhealthy.WithLabelValues(nodeURL).Set(float64(unhealthy))
}

func (e *PrometheusEmitter) IncConnectionsCreated(nodeURL string) {
	e.connectionsCreated.WithLabelValues(nodeURL).Inc()
}

func (e *PrometheusEmitter) IncFailedConnections(nodeURL string) {
	e.failedConnections.WithLabelValues(nodeURL).Inc()
}

func (e *PrometheusEmitter) ObserveConnectionLatency(nodeURL string, latency time.Duration) {
	e.connectionLatency.WithLabelValues(nodeURL).Observe(latency.Seconds())
}

func (e *PrometheusEmitter) IncIdleCleanupEvents(nodeURL string) {
	e.idleCleanupEvents.WithLabelValues(nodeURL).Inc()
}
