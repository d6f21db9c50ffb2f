// Package redis holds the redis client used for settlement locking.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPingTimeout = 5 * time.Second
	// defaultOpTimeout keeps a slow server from stalling checkout; a lock call
	// that times out falls back to settling without the lock.
	defaultOpTimeout = 500 * time.Millisecond
	clientName       = "restaurant-api"
)

// Config selects the server and bounds each round trip.
type Config struct {
	Addr        string
	Password    string
	DB          int
	PingTimeout time.Duration
	OpTimeout   time.Duration
}

// Connect dials redis and pings it once. The returned client applies OpTimeout
// to every read and write and retries a failed command at most once.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = defaultPingTimeout
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
		MaxRetries:   1,
	})

	if err := Check(client)(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Check returns a readiness check for client.
func Check(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		return nil
	}
}
