package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// DefaultKeyPrefix namespaces the per-resource counter hashes.
const DefaultKeyPrefix = "utilization:"

// Hash fields maintained by RedisManager.
const (
	FieldTotal    = "total"
	FieldLastSeen = "last_seen"
	actionField   = "action:"
)

// RedisManager keeps utilization counters in one Redis hash per resource:
//
//	utilization:<resourceId>
//	  total            -> all events
//	  action:<action>  -> events per action
//	  <bucket>:<value> -> events per demographic bucket (e.g. age_group:18-24)
//	  last_seen        -> RFC3339 time of the latest event
//
// All increments for one event are sent in a single MULTI/EXEC.
type RedisManager struct {
	Client redis.Cmdable
	Prefix string
	// TTL, when positive, is refreshed on every event so idle resources
	// eventually drop out of Redis.
	TTL time.Duration

	now func() time.Time
}

// NewRedisManager returns a RedisManager using DefaultKeyPrefix and no TTL.
func NewRedisManager(client redis.Cmdable) *RedisManager {
	return &RedisManager{Client: client, Prefix: DefaultKeyPrefix}
}

// Key returns the hash key for resourceID.
func (m *RedisManager) Key(resourceID string) string {
	p := m.Prefix
	if p == "" {
		p = DefaultKeyPrefix
	}
	return p + resourceID
}

// TrackUtilization implements Manager.
func (m *RedisManager) TrackUtilization(ctx context.Context, resourceID, action string, demographics *domain.Demographics) error {
	key := m.Key(resourceID)
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	seen := now().UTC().Format(time.RFC3339)

	_, err := m.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HIncrBy(ctx, key, FieldTotal, 1)
		p.HIncrBy(ctx, key, actionField+action, 1)
		for bucket, v := range demographics.Buckets() {
			p.HIncrBy(ctx, key, bucket+":"+v, 1)
		}
		p.HSet(ctx, key, FieldLastSeen, seen)
		if m.TTL > 0 {
			p.Expire(ctx, key, m.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis utilization %s: %w", resourceID, err)
	}
	return nil
}
