package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client with short timeouts; the rate limiter
// fails open, so a slow redis must not stall requests.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// RedisHealthy reports whether redis answers a PING.
func RedisHealthy(ctx context.Context, rdb *redis.Client) bool {
	if rdb == nil {
		return false
	}
	return rdb.Ping(ctx).Err() == nil
}
