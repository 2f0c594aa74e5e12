package redismanager

import (
	"context"
	"errors"
	"time"

	"github.com/aphistic/sweet"
	"github.com/efritz/glock"
	"github.com/efritz/overcurrent"
	. "github.com/onsi/gomega"
)

type ConnectionSuite struct{}

func testFactory(client RedisClient, err error) ClientFactory {
	return func(url string, capacity int, mode ClientMode, seedNodes []string, args PoolArgs) (RedisClient, error) {
		return client, err
	}
}

func (s *ConnectionSuite) TestWaitForReadySucceedsImmediately(t sweet.T) {
	client := NewMockRedisClient()
	conn := newConnection(
		"redis://localhost:6379", 10, ModeSingleNode, nil, nil,
		testFactory(client, nil), noopBreakerFunc, glock.NewRealClock(), testLogger, nil,
	)

	elapsed, err := conn.waitForReady(context.Background(), time.Second, time.Millisecond, 5)
	Expect(err).To(BeNil())
	Expect(elapsed).To(BeNumerically(">=", 0))
	Expect(conn.ready).To(BeTrue())

	got, err := conn.getClient()
	Expect(err).To(BeNil())
	Expect(got).To(BeIdenticalTo(client))
}

func (s *ConnectionSuite) TestWaitForReadyRetriesThenSucceeds(t sweet.T) {
	clock := glock.NewMockClock()
	client := NewMockRedisClient()

	attempts := 0
	factory := func(url string, capacity int, mode ClientMode, seedNodes []string, args PoolArgs) (RedisClient, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("dial refused")
		}
		return client, nil
	}

	conn := newConnection(
		"redis://localhost:6379", 10, ModeSingleNode, nil, nil,
		factory, noopBreakerFunc, clock, testLogger, nil,
	)

	result := make(chan error, 1)
	go func() {
		_, err := conn.waitForReady(context.Background(), 10*time.Second, 10*time.Millisecond, 5)
		result <- err
	}()

	Eventually(func() int { return attempts }).Should(Equal(1))
	clock.BlockingAdvance(10 * time.Millisecond)
	Eventually(func() int { return attempts }).Should(Equal(2))
	clock.BlockingAdvance(20 * time.Millisecond)
	Eventually(func() int { return attempts }).Should(Equal(3))

	Eventually(result).Should(Receive(BeNil()))
	Expect(conn.ready).To(BeTrue())
}

func (s *ConnectionSuite) TestWaitForReadyExhaustsRetries(t sweet.T) {
	clock := glock.NewMockClock()
	factory := func(url string, capacity int, mode ClientMode, seedNodes []string, args PoolArgs) (RedisClient, error) {
		return nil, errors.New("dial refused")
	}

	conn := newConnection(
		"redis://localhost:6379", 10, ModeSingleNode, nil, nil,
		factory, noopBreakerFunc, clock, testLogger, nil,
	)

	result := make(chan error, 1)
	go func() {
		_, err := conn.waitForReady(context.Background(), time.Second, time.Millisecond, 2)
		result <- err
	}()

	clock.BlockingAdvance(time.Millisecond)

	Eventually(result).Should(Receive(Equal(ErrNotReady)))
	Expect(conn.ready).To(BeFalse())
}

func (s *ConnectionSuite) TestWaitForReadyHonorsContextCancellation(t sweet.T) {
	clock := glock.NewMockClock()
	factory := func(url string, capacity int, mode ClientMode, seedNodes []string, args PoolArgs) (RedisClient, error) {
		return nil, errors.New("dial refused")
	}

	conn := newConnection(
		"redis://localhost:6379", 10, ModeSingleNode, nil, nil,
		factory, noopBreakerFunc, clock, testLogger, nil,
	)

	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() {
		_, err := conn.waitForReady(ctx, time.Minute, time.Second, 100)
		result <- err
	}()

	cancel()
	Eventually(result).Should(Receive(Equal(context.Canceled)))
}

func (s *ConnectionSuite) TestHealthCheckBeforeReady(t sweet.T) {
	conn := newConnection(
		"redis://localhost:6379", 10, ModeSingleNode, nil, nil,
		testFactory(nil, nil), noopBreakerFunc, glock.NewRealClock(), testLogger, nil,
	)

	err := conn.healthCheck(context.Background())
	Expect(err).To(Equal(ErrUnhealthy))
}

func (s *ConnectionSuite) TestHealthCheckReflectsPingFailure(t sweet.T) {
	client := NewMockRedisClient()
	conn := newConnection(
		"redis://localhost:6379", 10, ModeSingleNode, nil, nil,
		testFactory(client, nil), noopBreakerFunc, glock.NewRealClock(), testLogger, nil,
	)

	_, err := conn.waitForReady(context.Background(), time.Second, time.Millisecond, 5)
	Expect(err).To(BeNil())

	client.PingFunc = func(ctx context.Context) error {
		return errors.New("connection reset")
	}

	Expect(conn.healthCheck(context.Background())).To(Equal(ErrUnhealthy))
	Expect(conn.ready).To(BeTrue())

	conn.applyHealthCheck(ErrUnhealthy)
	Expect(conn.ready).To(BeFalse())
}

func (s *ConnectionSuite) TestCloseIsIdempotent(t sweet.T) {
	client := NewMockRedisClient()
	conn := newConnection(
		"redis://localhost:6379", 10, ModeSingleNode, nil, nil,
		testFactory(client, nil), noopBreakerFunc, glock.NewRealClock(), testLogger, nil,
	)

	_, err := conn.waitForReady(context.Background(), time.Second, time.Millisecond, 5)
	Expect(err).To(BeNil())

	Expect(conn.close()).To(BeNil())
	Expect(client.CloseFuncCallCount).To(Equal(1))
	Expect(conn.close()).To(BeNil())
	Expect(client.CloseFuncCallCount).To(Equal(1))
}

func (s *ConnectionSuite) TestCircuitBreakerShortCircuitsDial(t sweet.T) {
	breakerErr := errors.New("circuit open")
	breaker := func(f overcurrent.BreakerFunc) error {
		return breakerErr
	}

	conn := newConnection(
		"redis://localhost:6379", 10, ModeSingleNode, nil, nil,
		testFactory(NewMockRedisClient(), nil), breaker, glock.NewRealClock(), testLogger, nil,
	)

	_, err := conn.dial()
	Expect(err).To(Equal(breakerErr))
}
