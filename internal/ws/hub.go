package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event types pushed to connected clients.
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusUpdated = "order_status_updated"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// waiterEvent is an internal struct for routing events to one waiter's room
type waiterEvent struct {
	WaiterID uuid.UUID
	Event    Event
}

// Hub maintains the set of active clients and broadcasts order events.
// Each waiter has a room receiving updates for their own orders; admin
// clients (the kitchen display) additionally receive every event.
type Hub struct {
	// Registered waiter clients by user ID
	rooms map[uuid.UUID]map[*Client]bool

	// Admin (kitchen) clients receiving all events
	kitchen map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *waiterEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		kitchen:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *waiterEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.isAdmin {
				h.kitchen[client] = true
			}
			if h.rooms[client.userID] == nil {
				h.rooms[client.userID] = make(map[*Client]bool)
			}
			h.rooms[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropClient(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// The waiter's own room plus every kitchen client; a client in
			// both sets still receives the event once.
			targets := make(map[*Client]bool, len(h.kitchen)+len(h.rooms[event.WaiterID]))
			for client := range h.rooms[event.WaiterID] {
				targets[client] = true
			}
			for client := range h.kitchen {
				targets[client] = true
			}

			for client := range targets {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					h.dropClient(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// dropClient removes a client from every set. Caller holds h.mu.
func (h *Hub) dropClient(client *Client) {
	if clients, ok := h.rooms[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)
			// Clean up empty rooms
			if len(clients) == 0 {
				delete(h.rooms, client.userID)
			}
		}
	}
	delete(h.kitchen, client)
}

// BroadcastOrderEvent sends an event to the order's waiter and to every
// kitchen client. This is the public API for handlers to broadcast events.
func (h *Hub) BroadcastOrderEvent(waiterID uuid.UUID, event Event) {
	h.broadcast <- &waiterEvent{
		WaiterID: waiterID,
		Event:    event,
	}
}
