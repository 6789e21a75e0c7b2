package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestClient(h *Hub, userID uuid.UUID) *Client {
	return &Client{hub: h, userID: userID, send: make(chan []byte, 4)}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestHub_RoutesToUserOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	alice, bob := uuid.New(), uuid.New()
	a1, a2, b1 := newTestClient(h, alice), newTestClient(h, alice), newTestClient(h, bob)
	h.Register(a1)
	h.Register(a2)
	h.Register(b1)
	waitFor(t, func() bool { return h.ClientCount() == 3 })

	h.Notify(alice, "notification", map[string]string{"message": "hi"})

	for _, c := range []*Client{a1, a2} {
		select {
		case msg := <-c.send:
			var evt Event
			if err := json.Unmarshal(msg, &evt); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if evt.Type != "notification" {
				t.Fatalf("unexpected type %q", evt.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("expected message for alice's connection")
		}
	}
	select {
	case <-b1.send:
		t.Fatalf("bob should not receive alice's message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	c := newTestClient(h, uuid.New())
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel to be closed")
	}

	// A second unregister is a no-op.
	h.Unregister(c)
	h.Notify(c.userID, "notification", "x")
}

func TestHub_StoppedHubNeverBlocks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := newTestClient(h, uuid.New())
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	<-stopped
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel to be closed on shutdown")
	}

	finished := make(chan struct{})
	go func() {
		// More than the unregister buffer holds.
		for i := 0; i < 512; i++ {
			h.Unregister(c)
		}
		late := newTestClient(h, uuid.New())
		h.Register(late)
		if _, ok := <-late.send; ok {
			t.Errorf("expected late client to be closed")
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected unregister after shutdown not to block")
	}
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	h.Notify(uuid.New(), "notification", "x")
	if h.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
}
