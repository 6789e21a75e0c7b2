package cache

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

var errUnavailable = errors.New("redis unavailable")

// Redis wraps a client that may be absent. Every operation degrades to a
// no-op when Redis could not be reached at startup.
type Redis struct {
	client *redis.Client
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(ctx context.Context, addr, password string, logger *log.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] Redis unavailable at %s, login throttling disabled: %v", addr, err)
		}
		_ = client.Close()
		return &Redis{client: nil, logger: logger}
	}

	return &Redis{client: client, logger: logger}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] Redis error, bypassing: %v", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return errUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Available() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}
