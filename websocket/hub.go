package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed to connected admin reviewers
const (
	NotificationTypeSubmissionReceived = "submission_received"
	NotificationTypeSubmissionDecided  = "submission_decided"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
}

// Hub maintains the set of connected admin clients and pushes review-queue
// events to them.
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific connected client
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// Broadcast sends a notification to every connected client
func (h *Hub) Broadcast(notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.Conn.WriteJSON(notification)
	}
}

// NotifySubmissionReceived tells connected reviewers a new listing entered
// the pending queue.
func (h *Hub) NotifySubmissionReceived(listingData interface{}) {
	h.Broadcast(Notification{
		Type:    NotificationTypeSubmissionReceived,
		Message: "New listing submission awaiting review",
		Data:    listingData,
	})
}

// NotifySubmissionDecided tells connected reviewers a pending listing was
// approved or rejected, so stale queue entries can be dropped.
func (h *Hub) NotifySubmissionDecided(listingData interface{}) {
	h.Broadcast(Notification{
		Type:    NotificationTypeSubmissionDecided,
		Message: "A pending submission has been processed",
		Data:    listingData,
	})
}
