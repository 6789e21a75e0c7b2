package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

const loginKeyPrefix = "job-portal:login"

// LoginLimiter counts login attempts per key in fixed windows. It fails open:
// with Redis down every attempt is allowed.
type LoginLimiter struct {
	redis  *Redis
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewLoginLimiter(r *Redis, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{redis: r, limit: limit, window: window, now: time.Now}
}

func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || !l.redis.Available() || l.limit <= 0 {
		return true, nil
	}
	windowMs := l.window.Milliseconds()
	if windowMs <= 0 {
		return true, nil
	}

	count, err := fixedWindowScript.Run(ctx, l.redis.client, []string{l.slotKey(key)}, windowMs).Int64()
	if err != nil {
		l.redis.warnUnavailableOnce(err)
		return true, err
	}
	return count <= int64(l.limit), nil
}

// Reset clears the current window for key, used after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if l == nil || l.window <= 0 {
		return nil
	}
	return l.redis.Delete(ctx, l.slotKey(key))
}

func (l *LoginLimiter) slotKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	slot := l.now().UTC().UnixMilli() / l.window.Milliseconds()
	return fmt.Sprintf("%s:%s:%d", loginKeyPrefix, key, slot)
}
