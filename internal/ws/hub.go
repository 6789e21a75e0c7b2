package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type delivery struct {
	userID  uuid.UUID
	message []byte
}

// Hub tracks live websocket clients per user and routes messages to every
// connection the user has open.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		deliver:    make(chan delivery, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stopOnce.Do(func() { close(h.done) })
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			total := h.countLocked()
			h.mutex.Unlock()
			h.logf("WS connected | user=%s total_clients=%d", client.userID, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.removeLocked(client)
			total := h.countLocked()
			h.mutex.Unlock()
			h.logf("WS disconnected | user=%s total_clients=%d", client.userID, total)

		case d := <-h.deliver:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[d.userID]))
			for c := range h.clients[d.userID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- d.message:
				default:
					h.mutex.Lock()
					h.removeLocked(client)
					h.mutex.Unlock()
				}
			}
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, set := range h.clients {
		for c := range set {
			close(c.send)
		}
	}
	h.clients = make(map[uuid.UUID]map[*Client]struct{})
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Register adds client to the hub. Once the hub has stopped, the client's
// send channel is closed instead so its write pump exits.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	if h.stopped() {
		close(client.send)
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister never blocks after the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Send queues message for every connection of userID. It never blocks; a
// full queue drops the message.
func (h *Hub) Send(userID uuid.UUID, message []byte) {
	if h == nil {
		return
	}
	select {
	case h.deliver <- delivery{userID: userID, message: message}:
	default:
		h.logf("WS message dropped | user=%s reason=buffer_full", userID)
	}
}

// ClientCount is the number of open connections across all users.
func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.countLocked()
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
