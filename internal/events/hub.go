// Package events is the in-process change feed: every mutation of a watched
// table is published to all current subscribers, regardless of which user or
// client caused it. Consumers react by reloading wholesale, so delivery is
// best-effort: a slow subscriber drops events rather than blocking
// publishers.
package events

import (
	"log/slog"
	"sync"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Change describes one mutation of a watched table.
type Change struct {
	Table  string `json:"table"`
	Action Action `json:"action"`
	ID     string `json:"id"`
}

const subscriberBuffer = 16

type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Change
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[int]chan Change),
		logger: logger,
	}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called on teardown; after it returns the channel is closed.
func (h *Hub) Subscribe() (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Change, subscriberBuffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the change to every subscriber. Full subscriber buffers
// are skipped; the subscriber converges on the next event it does receive.
func (h *Hub) Publish(change Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- change:
		default:
			h.logger.Warn("dropping change event for slow subscriber",
				"subscriber", id, "table", change.Table, "action", change.Action)
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
