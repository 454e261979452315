package analytics

import (
	"sync"
)

// Hub fans snapshots out to in-process subscribers. Slow subscribers drop
// updates rather than blocking the broadcaster.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int]chan *Snapshot
	nextID      int
	latest      *Snapshot
}

// NewHub creates a new snapshot hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int]chan *Snapshot),
	}
}

// Subscribe registers a subscriber. The returned cancel function must be
// called to release the subscription.
func (h *Hub) Subscribe() (<-chan *Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan *Snapshot, 1)
	h.subscribers[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
	}

	return ch, cancel
}

// Publish delivers a snapshot to every subscriber and caches it as the
// latest value
func (h *Hub) Publish(snap *Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = snap

	for _, ch := range h.subscribers {
		select {
		case ch <- snap:
		default:
			// subscriber is lagging, drop this update
		}
	}
}

// Latest returns the most recently published snapshot, or nil before the
// first broadcast
func (h *Hub) Latest() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
