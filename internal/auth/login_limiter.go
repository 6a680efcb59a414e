package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginLimiter throttles login attempts per IP+email and locks an email after repeated failures.
// A nil *LoginLimiter allows everything. Redis failures also fail open.
type LoginLimiter struct {
	redis         redisRateCounter
	limitPerHour  int
	lockThreshold int
	lockTTL       time.Duration
	now           func() time.Time
}

func NewLoginLimiter(client redis.UniversalClient, limitPerHour, lockThreshold int, lockTTL time.Duration) *LoginLimiter {
	return &LoginLimiter{
		redis:         client,
		limitPerHour:  limitPerHour,
		lockThreshold: lockThreshold,
		lockTTL:       lockTTL,
		now:           time.Now,
	}
}

// Allow counts one attempt and reports whether it may proceed, with a reason when it may not.
func (l *LoginLimiter) Allow(ctx context.Context, ip, email string) (bool, string) {
	if l == nil {
		return true, ""
	}
	email = strings.ToLower(strings.TrimSpace(email))

	// 速率限制：每 IP+邮箱 每小时 N 次
	rateKey := "rate:login:" + ip + ":" + email + ":" + l.now().UTC().Format("2006010215")
	count, err := incrWithTTL(ctx, l.redis, rateKey, time.Hour)
	if err != nil {
		count = 0
	}
	if l.limitPerHour > 0 && count > int64(l.limitPerHour) {
		return false, "Too many login attempts."
	}

	if ttl, _ := l.redis.TTL(ctx, "lock:login:"+email).Result(); ttl > 0 {
		return false, "Account temporarily locked."
	}
	return true, ""
}

// RecordFailure increments the failure counter and sets the lock once the threshold is reached.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	if l == nil {
		return
	}
	email = strings.ToLower(strings.TrimSpace(email))
	count, err := incrWithTTL(ctx, l.redis, "lock:login:fail:"+email, l.lockTTL)
	if err != nil {
		return
	}
	if l.lockThreshold > 0 && count >= int64(l.lockThreshold) {
		_ = l.redis.Set(ctx, "lock:login:"+email, "1", l.lockTTL).Err()
	}
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil {
		return
	}
	_ = l.redis.Del(ctx, "lock:login:fail:"+strings.ToLower(strings.TrimSpace(email))).Err()
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}
