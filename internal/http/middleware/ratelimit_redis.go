package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// DefaultRateKeyPrefix namespaces rate-limit counters in redis.
const DefaultRateKeyPrefix = "ratelimit:"

// RedisRateLimiter is a fixed-window limiter whose counters live in redis,
// so every replica behind the load balancer shares one budget per key.
//
// Each request increments "<prefix><key>:<window>" and sets its expiry in one
// MULTI/EXEC; requests beyond Limit within the window are rejected. When
// redis is unreachable the request is let through and a warning is logged.
type RedisRateLimiter struct {
	Client redis.Cmdable
	Limit  int64
	Window time.Duration
	Prefix string

	keyFn keyFunc
	now   func() time.Time
}

// NewRedisRateLimiter allows limit requests per window for each key.
// limit <= 0 becomes 1 and window <= 0 becomes one second.
func NewRedisRateLimiter(client redis.Cmdable, limit int, window time.Duration, keyFn keyFunc) *RedisRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &RedisRateLimiter{
		Client: client,
		Limit:  int64(limit),
		Window: window,
		Prefix: DefaultRateKeyPrefix,
		keyFn:  keyFn,
	}
}

// Handler returns the Gin middleware. Idempotent replays are not counted.
func (rl *RedisRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		now := rl.clock()
		window := now.UnixNano() / int64(rl.Window)
		key := rl.Prefix + rl.keyFn(c) + ":" + strconv.FormatInt(window, 10)

		var incr *redis.IntCmd
		_, err := rl.Client.TxPipelined(c.Request.Context(), func(p redis.Pipeliner) error {
			incr = p.Incr(c.Request.Context(), key)
			p.Expire(c.Request.Context(), key, rl.Window)
			return nil
		})
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		if incr.Val() <= rl.Limit {
			c.Next()
			return
		}

		windowEnd := time.Unix(0, (window+1)*int64(rl.Window))
		tooManyRequests(c, int(windowEnd.Sub(now).Seconds()+0.999))
	}
}

func (rl *RedisRateLimiter) clock() time.Time {
	if rl.now != nil {
		return rl.now()
	}
	return time.Now()
}
