// Package feed propagates "order log changed" signals to observers.
//
// Delivery is at-least-once and unordered, and a signal carries no row:
// it is a cue to refetch the full log, so duplicates and reordering are
// harmless. Observers subscribe before their initial fetch, closing the
// race window between fetch and subscribe.
package feed

import "sync"

type FeedInterface interface {
	// Subscribe registers an observer and returns its signal channel plus
	// an unsubscribe func. Pending signals coalesce: a slow observer sees
	// at least one signal, not a backlog.
	Subscribe() (<-chan struct{}, func())
	Close()
}

// Hub fans one signal source out to any number of observers.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan struct{}
	nextID int
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan struct{})}
}

func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
}

// Notify signals every observer without blocking. A signal already queued
// for an observer absorbs the new one.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
