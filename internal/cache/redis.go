// Package cache manages the shared Redis connection. Redis serves three
// roles here: an optional key-value persistence backend, the broker for the
// background task queue, and a cache for hot listing snapshots.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis initializes and returns a Redis client instance.
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("connected to Redis", "addr", addr, "db", db)
	return rdb, nil
}

// DisconnectRedis closes the Redis client connection.
func DisconnectRedis(client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	slog.Info("Redis connection closed")
	return nil
}

const listingCachePrefix = "marketplace:listing:"

// CacheListing stores a JSON snapshot of a listing under its ID with a TTL.
// Best effort: callers log and move on if it fails.
func CacheListing(ctx context.Context, rdb *redis.Client, id string, listing any, ttl time.Duration) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %s for cache: %w", id, err)
	}
	if err := rdb.Set(ctx, listingCachePrefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache listing %s: %w", id, err)
	}
	return nil
}

// InvalidateListing removes a cached listing snapshot.
func InvalidateListing(ctx context.Context, rdb *redis.Client, id string) error {
	if err := rdb.Del(ctx, listingCachePrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached listing %s: %w", id, err)
	}
	return nil
}
