package handlers

import (
	"sync"
	"tunestatus"
)

// RunHub fans reconcile run outcomes out to connected websocket clients. The
// reconciler broadcasts into it; each ws connection holds a subscription.
type RunHub struct {
	mu   sync.Mutex
	subs map[chan tunestatus.RunRecord]struct{}
}

func NewRunHub() *RunHub {
	return &RunHub{subs: make(map[chan tunestatus.RunRecord]struct{})}
}

// Subscribe registers a listener and returns its channel plus a cancel func.
func (h *RunHub) Subscribe() (<-chan tunestatus.RunRecord, func()) {
	ch := make(chan tunestatus.RunRecord, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers to every subscriber without blocking: a slow client
// drops events rather than stalling the reconcile loop.
func (h *RunHub) Broadcast(rec tunestatus.RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}
