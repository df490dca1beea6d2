package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultInvalidationWindow is how long the hub collects report
// invalidations of one user before telling their clients
const DefaultInvalidationWindow = 250 * time.Millisecond

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	UserID() string
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized by user
// It is safe for concurrent use
type Hub struct {
	// users maps user ID to a map of client ID to client
	users map[string]map[string]ClientInterface
	mu    sync.RWMutex

	// pending counts the writes behind a user's not yet sent report.invalidated
	window    time.Duration
	pending   map[string]int
	pendingMu sync.Mutex
}

// NewHub creates a new Hub that coalesces report invalidations over
// DefaultInvalidationWindow
func NewHub() *Hub {
	return NewHubWithWindow(DefaultInvalidationWindow)
}

// NewHubWithWindow creates a new Hub. A window <= 0 sends every report
// invalidation as it happens.
func NewHubWithWindow(window time.Duration) *Hub {
	return &Hub{
		users:   make(map[string]map[string]ClientInterface),
		window:  window,
		pending: make(map[string]int),
	}
}

// Register adds a client to the hub under its user
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.UserID()
	clientID := client.ID()

	if h.users[userID] == nil {
		h.users[userID] = make(map[string]ClientInterface)
	}

	h.users[userID][clientID] = client

	log.Debug().
		Str("user_id", userID).
		Str("client_id", clientID).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.UserID()
	clientID := client.ID()

	if clients, ok := h.users[userID]; ok {
		if _, exists := clients[clientID]; exists {
			delete(clients, clientID)

			if len(clients) == 0 {
				delete(h.users, userID)
			}

			log.Debug().
				Str("user_id", userID).
				Str("client_id", clientID).
				Msg("WebSocket client unregistered")
		}
	}
}

// Broadcast sends an event to every connection of a user
func (h *Hub) Broadcast(userID string, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clients, ok := h.users[userID]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy clients to avoid holding lock during send
	clientsCopy := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	h.mu.RUnlock()

	for _, client := range clientsCopy {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("user_id", userID).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("user_id", userID).
		Str("event_type", event.Type).
		Int("client_count", len(clientsCopy)).
		Msg("Broadcast event")
}

// ClientCount returns the number of clients connected for a user
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.users[userID])
}

// TotalClientCount returns the total number of connected clients
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.users {
		total += len(clients)
	}
	return total
}
