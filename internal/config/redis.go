package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a redis client from rc and pings it with a short
// timeout. It returns nil when rc.Addr is empty or the server is unreachable;
// callers then run without redis-backed features.
func NewRedisClient(rc RedisConfig) *redis.Client {
	if rc.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
