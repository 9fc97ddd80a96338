package socket

import (
	"context"
	"encoding/json"
	"sync"

	"todolist/pkg/logger"
)

const (
	ItemAddedType   = "ITEM_ADDED"
	ItemUpdatedType = "ITEM_UPDATED"
	ItemDeletedType = "ITEM_DELETED"
)

// ItemEvent tells open list pages that the items table changed.
type ItemEvent struct {
	Type   string `json:"type"`
	ItemID int64  `json:"item_id"`
	Title  string `json:"title,omitempty"`
}

// Hub fans item events out to every connected page. All map access happens
// on the Run goroutine; mu only guards the client count read by ClientCount.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan ItemEvent
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}

	mu    sync.Mutex
	count int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ItemEvent, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Publish queues an event without blocking. If the queue is full the event
// is dropped; pages still see the change on their next load.
func (h *Hub) Publish(ev ItemEvent) {
	select {
	case h.broadcast <- ev:
	default:
		logger.Sugar.Warnf("Hub queue full, dropping %s event for item %d", ev.Type, ev.ItemID)
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
				client.Conn.Close()
			}
			return

		case client := <-h.Register:
			h.clients[client] = true
			h.setCount()

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
			}

		case ev := <-h.broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling item event: %v", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.Send <- payload:
				default:
					// The client is lagging; drop it rather than block the hub.
					logger.Sugar.Warnf("Client send buffer is full, unregistering (%d clients left)", len(h.clients)-1)
					h.remove(client)
				}
			}
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.setCount()
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}
