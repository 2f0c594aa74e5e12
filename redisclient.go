package redismanager

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/yokha/redis-manager/iface"
)

type (
	// RedisClient is the minimal handle the core borrows from the
	// underlying client library: a liveness probe and a teardown call.
	RedisClient = iface.RedisClient

	// ClientFactory constructs a RedisClient for a node. mode selects
	// single-node vs cluster dialing; seedNodes is only consulted in
	// cluster mode.
	ClientFactory func(url string, capacity int, mode ClientMode, seedNodes []string, args PoolArgs) (RedisClient, error)

	redigoClient struct {
		conn redis.Conn
	}

	clusterClient struct {
		conns []redis.Conn
	}
)

// validPoolArgKeys mirrors the Python original's VALID_POOL_ARGS: the
// subset of PoolArgs keys the default factory understands and forwards to
// redigo's dial options.
var validPoolArgKeys = map[string]struct{}{
	"password":        {},
	"database":        {},
	"connect_timeout": {},
	"read_timeout":    {},
	"write_timeout":   {},
}

// DefaultClientFactory returns the redigo-backed ClientFactory used when no
// custom factory is configured on the Manager.
func DefaultClientFactory() ClientFactory {
	return func(url string, capacity int, mode ClientMode, seedNodes []string, args PoolArgs) (RedisClient, error) {
		if err := validatePoolArgs(args); err != nil {
			return nil, err
		}

		if mode == ModeCluster {
			return dialCluster(seedNodes, args)
		}

		return dialSingle(url, args)
	}
}

func validatePoolArgs(args PoolArgs) error {
	for key := range args {
		if _, ok := validPoolArgKeys[key]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidPoolArgs, key)
		}
	}

	return nil
}

func dialOptions(args PoolArgs) []redis.DialOption {
	opts := []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}

	if password, ok := args["password"].(string); ok {
		opts = append(opts, redis.DialPassword(password))
	}

	if database, ok := args["database"].(int); ok {
		opts = append(opts, redis.DialDatabase(database))
	}

	if timeout, ok := args["connect_timeout"].(time.Duration); ok {
		opts = append(opts, redis.DialConnectTimeout(timeout))
	}

	if timeout, ok := args["read_timeout"].(time.Duration); ok {
		opts = append(opts, redis.DialReadTimeout(timeout))
	}

	if timeout, ok := args["write_timeout"].(time.Duration); ok {
		opts = append(opts, redis.DialWriteTimeout(timeout))
	}

	return opts
}

func dialSingle(url string, args PoolArgs) (RedisClient, error) {
	conn, err := redis.DialURL(url, dialOptions(args)...)
	if err != nil {
		return nil, err
	}

	return &redigoClient{conn: conn}, nil
}

// dialCluster approximates cluster mode by dialing every seed node with the
// same redigo primitive used for single-node mode. It does not perform
// slot-aware routing -- see DESIGN.md for the rationale; no cluster-topology
// client ships anywhere in the retrieval pack this module was built from.
func dialCluster(seedNodes []string, args PoolArgs) (RedisClient, error) {
	if len(seedNodes) == 0 {
		return nil, fmt.Errorf("redis-manager: cluster mode requires at least one seed node")
	}

	conns := make([]redis.Conn, 0, len(seedNodes))
	for _, addr := range seedNodes {
		conn, err := redis.DialURL(addr, dialOptions(args)...)
		if err != nil {
			for _, c := range conns {
				c.Close()
			}

			return nil, err
		}

		conns = append(conns, conn)
	}

	return &clusterClient{conns: conns}, nil
}

func (c *redigoClient) Ping(ctx context.Context) error {
	_, err := c.conn.Do("PING")
	return err
}

func (c *redigoClient) Close() error {
	return c.conn.Close()
}

// Ping probes one randomly chosen seed connection and returns that seed's
// result, so a probe that lands on an unreachable seed fails even when the
// other seeds are up; the health-check loop probes again on its next tick.
func (c *clusterClient) Ping(ctx context.Context) error {
	if len(c.conns) == 0 {
		return ErrNotReady
	}

	conn := c.conns[chooseRandomIndex(len(c.conns))]
	_, err := conn.Do("PING")
	return err
}

func (c *clusterClient) Close() error {
	var firstErr error
	for _, conn := range c.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
