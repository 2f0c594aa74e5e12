package redismanager

import (
	"log"

	"github.com/yokha/redis-manager/iface"
)

type (
	// Logger is the interface every component writes diagnostic output
	// through. Components never call the global log package directly.
	Logger = iface.Logger

	defaultLogger struct{}
	nilLogger     struct{}
)

// NewDefaultLogger returns a Logger backed by the standard library's log
// package.
func NewDefaultLogger() Logger {
	return &defaultLogger{}
}

// NewNilLogger returns a Logger that discards everything written to it.
func NewNilLogger() Logger {
	return &nilLogger{}
}

func (l *defaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

func (l *nilLogger) Printf(format string, args ...interface{}) {
}
