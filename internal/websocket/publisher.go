package websocket

import "time"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to every connection of the user
	Publish(userID string, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user.
// Report invalidations are coalesced per user: a burst of writes inside the
// hub's window reaches clients as one report.invalidated carrying the number
// of writes.
func (h *Hub) Publish(userID string, event Event) {
	if event.Type != reportInvalidatedType || h.window <= 0 {
		h.Broadcast(userID, event)
		return
	}
	if h.ClientCount(userID) == 0 {
		return
	}

	changes := 1
	if p, ok := event.Payload.(ReportsInvalidatedPayload); ok && p.Changes > 0 {
		changes = p.Changes
	}

	h.pendingMu.Lock()
	defer h.pendingMu.Unlock()
	if _, scheduled := h.pending[userID]; scheduled {
		h.pending[userID] += changes
		return
	}
	h.pending[userID] = changes
	time.AfterFunc(h.window, func() { h.flushInvalidation(userID) })
}

// PendingInvalidations returns the writes waiting to be announced to userID
func (h *Hub) PendingInvalidations(userID string) int {
	h.pendingMu.Lock()
	defer h.pendingMu.Unlock()
	return h.pending[userID]
}

func (h *Hub) flushInvalidation(userID string) {
	h.pendingMu.Lock()
	changes, ok := h.pending[userID]
	delete(h.pending, userID)
	h.pendingMu.Unlock()

	if ok {
		h.Broadcast(userID, ReportsInvalidated(changes))
	}
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID string, event Event) {}
