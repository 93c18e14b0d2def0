// Package websocket pushes store snapshots to connected views.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mykitchen/kitchen/internal/store"
	"github.com/mykitchen/kitchen/pkg/logger"
)

const (
	MessageTypeSnapshot = "snapshot"

	sendBufferSize = 16
)

// SnapshotMessage is the frame sent to views after every dispatch.
type SnapshotMessage struct {
	Type  string         `json:"type"`
	Seq   uint64         `json:"seq"`
	State store.Snapshot `json:"state"`
}

// Client is one connected view.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID string
	Send   chan []byte
}

func NewClient(hub *Hub, conn *Conn, userID string) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// Hub fans snapshot frames out to every registered client.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	done chan struct{}

	mu     sync.RWMutex
	seq    uint64
	latest []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes every
// client's Send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			latest := h.latest
			total := len(h.clients)
			h.mu.Unlock()

			// New views start from the current state.
			if latest != nil {
				client.Send <- latest
			}
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id": client.UserID,
				"clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
				"clients": total,
			})

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow view: drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.Send)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues snap for every client. It never blocks, so it is safe to use
// as a store subscriber.
func (h *Hub) Publish(snap store.Snapshot) {
	if snap.Session.Identity != nil {
		id := *snap.Session.Identity
		id.Token = ""
		snap.Session.Identity = &id
	}

	h.mu.Lock()
	h.seq++
	seq := h.seq
	data, err := json.Marshal(SnapshotMessage{Type: MessageTypeSnapshot, Seq: seq, State: snap})
	if err != nil {
		h.mu.Unlock()
		logger.Error("Failed to marshal snapshot", err, nil)
		return
	}
	h.latest = data
	h.mu.Unlock()

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, snapshot dropped", map[string]interface{}{
			"seq": seq,
		})
	}
}

// Attach subscribes the hub to st and returns the unsubscribe function.
func (h *Hub) Attach(st *store.Store) func() {
	h.Publish(st.Snapshot())
	return st.Subscribe(h.Publish)
}

// Register adds client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
