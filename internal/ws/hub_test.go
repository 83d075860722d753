package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, userID uuid.UUID, isAdmin bool) *Client {
	return &Client{
		hub:     hub,
		userID:  userID,
		isAdmin: isAdmin,
		send:    make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	waiterID := uuid.New()
	client := mockClient(hub, waiterID, false)

	// Register client
	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[waiterID] == nil {
		t.Fatal("waiter room not created")
	}
	if !hub.rooms[waiterID][client] {
		t.Fatal("client not registered in waiter room")
	}
	if hub.kitchen[client] {
		t.Fatal("waiter client must not join the kitchen set")
	}
}

func TestHubAdminJoinsKitchen(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	adminID := uuid.New()
	client := mockClient(hub, adminID, true)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.kitchen[client] {
		t.Fatal("admin client not in kitchen set")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	waiterID := uuid.New()
	client := mockClient(hub, waiterID, false)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[waiterID] != nil {
		t.Fatal("empty waiter room not cleaned up")
	}
}

func TestBroadcastReachesWaiterAndKitchen(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	waiterID := uuid.New()
	waiter := mockClient(hub, waiterID, false)
	otherWaiter := mockClient(hub, uuid.New(), false)
	kitchen := mockClient(hub, uuid.New(), true)

	hub.register <- waiter
	hub.register <- otherWaiter
	hub.register <- kitchen
	time.Sleep(10 * time.Millisecond)

	payload, _ := json.Marshal(map[string]string{"status": "Ready"})
	hub.BroadcastOrderEvent(waiterID, Event{Type: EventOrderStatusUpdated, Payload: payload})

	select {
	case msg := <-waiter.send:
		var event Event
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if event.Type != EventOrderStatusUpdated {
			t.Errorf("event type: got %q, want %q", event.Type, EventOrderStatusUpdated)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter did not receive the event")
	}

	select {
	case <-kitchen.send:
	case <-time.After(time.Second):
		t.Fatal("kitchen did not receive the event")
	}

	select {
	case <-otherWaiter.send:
		t.Fatal("other waiter must not receive the event")
	case <-time.After(50 * time.Millisecond):
	}
}
