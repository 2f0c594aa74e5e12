// DO NOT EDIT
// Code generated automatically by github.com/efritz/go-mockgen
// $ go-mockgen github.com/yokha/redis-manager -o mock_test.go -i RedisClient -i Emitter

package redismanager

import (
	context "context"
	time "time"
)

type MockRedisClient struct {
	PingFunc            func(context.Context) error
	PingFuncCallCount   int
	PingFuncCallParams  []RedisClientPingParamSet
	CloseFunc           func() error
	CloseFuncCallCount  int
	CloseFuncCallParams []RedisClientCloseParamSet
}
type RedisClientCloseParamSet struct{}
type RedisClientPingParamSet struct {
	Arg0 context.Context
}

var _ RedisClient = NewMockRedisClient()

func NewMockRedisClient() *MockRedisClient {
	m := &MockRedisClient{}
	m.PingFunc = m.defaultPingFunc
	m.CloseFunc = m.defaultCloseFunc
	return m
}
func (m *MockRedisClient) Ping(v0 context.Context) error {
	m.PingFuncCallCount++
	m.PingFuncCallParams = append(m.PingFuncCallParams, RedisClientPingParamSet{v0})
	return m.PingFunc(v0)
}
func (m *MockRedisClient) Close() error {
	m.CloseFuncCallCount++
	m.CloseFuncCallParams = append(m.CloseFuncCallParams, RedisClientCloseParamSet{})
	return m.CloseFunc()
}
func (m *MockRedisClient) defaultPingFunc(v0 context.Context) error {
	return nil
}
func (m *MockRedisClient) defaultCloseFunc() error {
	return nil
}

type MockEmitter struct {
	SetPoolSizeFunc                   func(string, int)
	SetPoolSizeFuncCallCount          int
	SetPoolSizeFuncCallParams         []EmitterSetPoolSizeParamSet
	SetPoolActiveFunc                 func(string, int)
	SetPoolActiveFuncCallCount        int
	SetPoolActiveFuncCallParams       []EmitterSetPoolActiveParamSet
	SetPoolIdleFunc                   func(string, int)
	SetPoolIdleFuncCallCount          int
	SetPoolIdleFuncCallParams         []EmitterSetPoolIdleParamSet
	SetPoolHealthyFunc                func(string, int)
	SetPoolHealthyFuncCallCount       int
	SetPoolHealthyFuncCallParams      []EmitterSetPoolHealthyParamSet
	SetPoolUnhealthyFunc              func(string, int)
	SetPoolUnhealthyFuncCallCount     int
	SetPoolUnhealthyFuncCallParams    []EmitterSetPoolUnhealthyParamSet
	IncConnectionsCreatedFunc         func(string)
	IncConnectionsCreatedFuncCallCount int
	IncConnectionsCreatedFuncCallParams []EmitterIncConnectionsCreatedParamSet
	IncFailedConnectionsFunc          func(string)
	IncFailedConnectionsFuncCallCount int
	IncFailedConnectionsFuncCallParams []EmitterIncFailedConnectionsParamSet
	ObserveConnectionLatencyFunc      func(string, time.Duration)
	ObserveConnectionLatencyFuncCallCount int
	ObserveConnectionLatencyFuncCallParams []EmitterObserveConnectionLatencyParamSet
	IncIdleCleanupEventsFunc          func(string)
	IncIdleCleanupEventsFuncCallCount int
	IncIdleCleanupEventsFuncCallParams []EmitterIncIdleCleanupEventsParamSet
}
type EmitterSetPoolSizeParamSet struct {
	Arg0 string
	Arg1 int
}
type EmitterSetPoolActiveParamSet struct {
	Arg0 string
	Arg1 int
}
type EmitterSetPoolIdleParamSet struct {
	Arg0 string
	Arg1 int
}
type EmitterSetPoolHealthyParamSet struct {
	Arg0 string
	Arg1 int
}
type EmitterSetPoolUnhealthyParamSet struct {
	Arg0 string
	Arg1 int
}
type EmitterIncConnectionsCreatedParamSet struct {
	Arg0 string
}
type EmitterIncFailedConnectionsParamSet struct {
	Arg0 string
}
type EmitterObserveConnectionLatencyParamSet struct {
	Arg0 string
	Arg1 time.Duration
}
type EmitterIncIdleCleanupEventsParamSet struct {
	Arg0 string
}

var _ Emitter = NewMockEmitter()

func NewMockEmitter() *MockEmitter {
	m := &MockEmitter{}
	m.SetPoolSizeFunc = m.defaultSetPoolSizeFunc
	m.SetPoolActiveFunc = m.defaultSetPoolActiveFunc
	m.SetPoolIdleFunc = m.defaultSetPoolIdleFunc
	m.SetPoolHealthyFunc = m.defaultSetPoolHealthyFunc
	m.SetPoolUnhealthyFunc = m.defaultSetPoolUnhealthyFunc
	m.IncConnectionsCreatedFunc = m.defaultIncConnectionsCreatedFunc
	m.IncFailedConnectionsFunc = m.defaultIncFailedConnectionsFunc
	m.ObserveConnectionLatencyFunc = m.defaultObserveConnectionLatencyFunc
	m.IncIdleCleanupEventsFunc = m.defaultIncIdleCleanupEventsFunc
	return m
}
func (m *MockEmitter) SetPoolSize(v0 string, v1 int) {
	m.SetPoolSizeFuncCallCount++
	m.SetPoolSizeFuncCallParams = append(m.SetPoolSizeFuncCallParams, EmitterSetPoolSizeParamSet{v0, v1})
	m.SetPoolSizeFunc(v0, v1)
}
func (m *MockEmitter) SetPoolActive(v0 string, v1 int) {
	m.SetPoolActiveFuncCallCount++
	m.SetPoolActiveFuncCallParams = append(m.SetPoolActiveFuncCallParams, EmitterSetPoolActiveParamSet{v0, v1})
	m.SetPoolActiveFunc(v0, v1)
}
func (m *MockEmitter) SetPoolIdle(v0 string, v1 int) {
	m.SetPoolIdleFuncCallCount++
	m.SetPoolIdleFuncCallParams = append(m.SetPoolIdleFuncCallParams, EmitterSetPoolIdleParamSet{v0, v1})
	m.SetPoolIdleFunc(v0, v1)
}
func (m *MockEmitter) SetPoolHealthy(v0 string, v1 int) {
	m.SetPoolHealthyFuncCallCount++
	m.SetPoolHealthyFuncCallParams = append(m.SetPoolHealthyFuncCallParams, EmitterSetPoolHealthyParamSet{v0, v1})
	m.SetPoolHealthyFunc(v0, v1)
}
func (m *MockEmitter) SetPoolUnhealthy(v0 string, v1 int) {
	m.SetPoolUnhealthyFuncCallCount++
	m.SetPoolUnhealthyFuncCallParams = append(m.SetPoolUnhealthyFuncCallParams, EmitterSetPoolUnhealthyParamSet{v0, v1})
	m.SetPoolUnhealthyFunc(v0, v1)
}
func (m *MockEmitter) IncConnectionsCreated(v0 string) {
	m.IncConnectionsCreatedFuncCallCount++
	m.IncConnectionsCreatedFuncCallParams = append(m.IncConnectionsCreatedFuncCallParams, EmitterIncConnectionsCreatedParamSet{v0})
	m.IncConnectionsCreatedFunc(v0)
}
func (m *MockEmitter) IncFailedConnections(v0 string) {
	m.IncFailedConnectionsFuncCallCount++
	m.IncFailedConnectionsFuncCallParams = append(m.IncFailedConnectionsFuncCallParams, EmitterIncFailedConnectionsParamSet{v0})
	m.IncFailedConnectionsFunc(v0)
}
func (m *MockEmitter) ObserveConnectionLatency(v0 string, v1 time.Duration) {
	m.ObserveConnectionLatencyFuncCallCount++
	m.ObserveConnectionLatencyFuncCallParams = append(m.ObserveConnectionLatencyFuncCallParams, EmitterObserveConnectionLatencyParamSet{v0, v1})
	m.ObserveConnectionLatencyFunc(v0, v1)
}
func (m *MockEmitter) IncIdleCleanupEvents(v0 string) {
	m.IncIdleCleanupEventsFuncCallCount++
	m.IncIdleCleanupEventsFuncCallParams = append(m.IncIdleCleanupEventsFuncCallParams, EmitterIncIdleCleanupEventsParamSet{v0})
	m.IncIdleCleanupEventsFunc(v0)
}
func (m *MockEmitter) defaultSetPoolSizeFunc(v0 string, v1 int)               {}
func (m *MockEmitter) defaultSetPoolActiveFunc(v0 string, v1 int)             {}
func (m *MockEmitter) defaultSetPoolIdleFunc(v0 string, v1 int)               {}
func (m *MockEmitter) defaultSetPoolHealthyFunc(v0 string, v1 int)            {}
func (m *MockEmitter) defaultSetPoolUnhealthyFunc(v0 string, v1 int)          {}
func (m *MockEmitter) defaultIncConnectionsCreatedFunc(v0 string)             {}
func (m *MockEmitter) defaultIncFailedConnectionsFunc(v0 string)              {}
func (m *MockEmitter) defaultObserveConnectionLatencyFunc(v0 string, v1 time.Duration) {}
func (m *MockEmitter) defaultIncIdleCleanupEventsFunc(v0 string)              {}
