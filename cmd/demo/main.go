// Command demo runs a standalone stress-test service against a single Redis
// node, modeled on the original package's FastAPI testbench app: it brings
// up one node pool, starts the cleanup loop, exposes Prometheus metrics, and
// drives a growing wave of concurrent PING workloads through borrowed
// clients, dropping back to a single client once a wave would reach 1000.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	redismanager "github.com/yokha/redis-manager"
)

const (
	nodeURL             = "redis://redis:6379"
	initialClients      = 20
	warmupDelay         = 15 * time.Second
	iterationPause      = 11 * time.Second
	shrinkPause         = 70 * time.Second
	addNodeTimeout      = 5 * time.Second
	healthCheckInterval = 10 * time.Second
	cleanupInterval     = 30 * time.Second
	maxIdleTime         = 25 * time.Second
)

var jobDurations = []time.Duration{2 * time.Second, 3 * time.Second, 6 * time.Second, 10 * time.Second}

type benchStats struct {
	mu        sync.Mutex
	running   int
	completed int
	failed    int
}

func (s *benchStats) start() {
	s.mu.Lock()
	s.running++
	s.mu.Unlock()
}

func (s *benchStats) finish(ok bool) {
	s.mu.Lock()
	s.running--
	if ok {
		s.completed++
	} else {
		s.failed++
	}
	s.mu.Unlock()
}

func (s *benchStats) snapshot() (running, completed, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.completed, s.failed
}

func main() {
	registry := prometheus.NewRegistry()
	emitter := redismanager.NewPrometheusEmitter(registry)

	manager := redismanager.NewManager(
		redismanager.WithConfig(mustConfig()),
		redismanager.WithEmitter(emitter),
	)

	ctx, cancel := context.WithCancel(context.Background())

	if err := manager.AddNode(ctx, nodeURL, addNodeTimeout); err != nil {
		log.Printf("[startup] failed to add node pool: %s", err)
	} else {
		manager.StartCleanup()
		go runBenchmark(ctx, manager)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: ":8080", Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server stopped: %s", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := manager.CloseAll(shutdownCtx); err != nil {
		log.Printf("[shutdown] error closing redis manager: %s", err)
	} else {
		log.Println("[shutdown] redis manager pools closed successfully")
	}

	server.Close()
}

func mustConfig() redismanager.Config {
	cfg := redismanager.DefaultConfig()
	cfg.InitialPoolsPerNode = 1
	cfg.MaxConnectionSize = 50
	cfg.HealthCheckInterval = healthCheckInterval
	cfg.CleanupInterval = cleanupInterval
	cfg.MaxIdleTime = maxIdleTime
	return cfg
}

func runBenchmark(ctx context.Context, manager *redismanager.Manager) {
	select {
	case <-time.After(warmupDelay):
	case <-ctx.Done():
		return
	}

	stats := &benchStats{}
	iteration := 1
	numClients := initialClients

	for {
		if ctx.Err() != nil {
			return
		}

		n := numClients + []int{300, 500}[rand.Intn(2)]
		if n >= 1000 {
			numClients = 1
		} else {
			numClients = n
		}

		log.Printf("--- starting benchmark iteration %d num_clients=%d ---", iteration, numClients)

		var wg sync.WaitGroup
		for i := 0; i < numClients; i++ {
			wg.Add(1)
			go func(clientID, iter int) {
				defer wg.Done()
				simulateJob(ctx, manager, stats, clientID, iter)
			}(i, iteration)
		}
		wg.Wait()

		running, completed, failed := stats.snapshot()
		log.Printf("--- iteration %d completed ---", iteration)
		log.Printf("tasks running: %d, completed: %d, failed: %d", running, completed, failed)

		pause := iterationPause
		if numClients == 1 {
			pause = shrinkPause
		}

		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return
		}

		iteration++
	}
}

func simulateJob(ctx context.Context, manager *redismanager.Manager, stats *benchStats, clientID, iteration int) {
	stats.start()

	ok := false
	defer func() { stats.finish(ok) }()

	borrow, err := manager.GetClient(ctx, nodeURL)
	if err != nil {
		log.Printf("[iteration %d] [client %d] error: %s", iteration, clientID, err)
		return
	}
	defer borrow.Release()

	client := borrow.Client()

	key := fmt.Sprintf("iteration_%d_client_%d", iteration, clientID)
	log.Printf("[iteration %d] [client %d] pinging workload: %s", iteration, clientID, key)

	if err := client.Ping(ctx); err != nil {
		log.Printf("[iteration %d] [client %d] error: %s", iteration, clientID, err)
		return
	}

	duration := jobDurations[rand.Intn(len(jobDurations))]
	select {
	case <-time.After(duration):
	case <-ctx.Done():
		return
	}

	log.Printf("[iteration %d] [client %d] ping workload complete: %s", iteration, clientID, key)
	ok = true
}
