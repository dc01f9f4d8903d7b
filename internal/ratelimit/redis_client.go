package ratelimit

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis connection used for distributed rate limiting.
// When Redis is unreachable at startup the client is marked disabled and the
// rate limiter falls back to in-memory buckets.
type RedisClient struct {
	client  *redis.Client
	enabled bool
}

// NewRedisClient connects to Redis using REDIS_ADDR and REDIS_PASSWORD.
// An empty REDIS_ADDR disables Redis entirely.
func NewRedisClient() *RedisClient {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		slog.Info("REDIS_ADDR not set, Redis rate limiting disabled")
		return &RedisClient{enabled: false}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis ping failed, rate limiting will use in-memory fallback", "addr", addr, "error", err)
		_ = client.Close()
		return &RedisClient{enabled: false}
	}

	slog.Info("Connected to Redis", "addr", addr)
	return &RedisClient{client: client, enabled: true}
}

// IsEnabled reports whether Redis is available.
func (rc *RedisClient) IsEnabled() bool {
	return rc != nil && rc.enabled
}

// GetClient returns the underlying Redis client. Nil when disabled.
func (rc *RedisClient) GetClient() *redis.Client {
	if !rc.IsEnabled() {
		return nil
	}
	return rc.client
}

// GetPoolStats returns connection pool statistics.
func (rc *RedisClient) GetPoolStats() map[string]any {
	if !rc.IsEnabled() {
		return map[string]any{"enabled": false}
	}
	stats := rc.client.PoolStats()
	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// Close closes the Redis connection.
func (rc *RedisClient) Close() error {
	if !rc.IsEnabled() {
		return nil
	}
	return rc.client.Close()
}
