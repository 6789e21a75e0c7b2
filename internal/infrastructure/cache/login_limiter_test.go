package cache

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedis(context.Background(), mr.Addr(), "", log.New(io.Discard, "", 0))
	if !r.Available() {
		t.Fatalf("expected redis to be available")
	}
	t.Cleanup(func() { _ = r.Close() })
	return mr, r
}

func TestLoginLimiter_BlocksAfterLimit(t *testing.T) {
	_, r := newTestRedis(t)
	l := NewLoginLimiter(r, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4:a@x.io")
		if err != nil || !ok {
			t.Fatalf("attempt %d should pass, got ok=%v err=%v", i+1, ok, err)
		}
	}
	ok, err := l.Allow(ctx, "1.2.3.4:a@x.io")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("third attempt should be blocked")
	}

	if ok, _ := l.Allow(ctx, "1.2.3.4:b@x.io"); !ok {
		t.Fatalf("other keys should not share the counter")
	}
}

func TestLoginLimiter_ResetClearsWindow(t *testing.T) {
	_, r := newTestRedis(t)
	l := NewLoginLimiter(r, 1, time.Minute)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "k")
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatalf("expected block before reset")
	}
	if err := l.Reset(ctx, "k"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatalf("expected pass after reset")
	}
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	mr, r := newTestRedis(t)
	l := NewLoginLimiter(r, 1, time.Minute)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "k")
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatalf("expected block inside window")
	}

	mr.FastForward(time.Minute)
	fixed = fixed.Add(time.Minute)
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatalf("expected pass in next window")
	}
}

func TestLoginLimiter_FailsOpen(t *testing.T) {
	r := NewRedis(context.Background(), "127.0.0.1:1", "", log.New(io.Discard, "", 0))
	if r.Available() {
		t.Fatalf("expected redis to be unavailable")
	}
	l := NewLoginLimiter(r, 1, time.Minute)
	for i := 0; i < 3; i++ {
		if ok, err := l.Allow(context.Background(), "k"); !ok || err != nil {
			t.Fatalf("expected bypass, got ok=%v err=%v", ok, err)
		}
	}
}

func TestLoginLimiter_RedisDropsMidway(t *testing.T) {
	mr, r := newTestRedis(t)
	l := NewLoginLimiter(r, 1, time.Minute)
	mr.Close()

	ok, err := l.Allow(context.Background(), "k")
	if !ok {
		t.Fatalf("expected fail open")
	}
	if err == nil {
		t.Fatalf("expected redis error to be reported")
	}
}
