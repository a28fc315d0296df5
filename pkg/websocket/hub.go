package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/pkg/logger"
)

// Hub tracks live connections per recipient. A recipient may hold several
// connections at once (for example two browser tabs).
type Hub struct {
	clients    map[primitive.ObjectID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *logger.Logger
}

type Message struct {
	Type        string             `json:"type"`
	RecipientID primitive.ObjectID `json:"recipient_id"`
	Timestamp   int64              `json:"timestamp"`
	Data        interface{}        `json:"data,omitempty"`
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
	}
}

// Run serves register and unregister requests until ctx is cancelled, then
// closes every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.clients[client.RecipientID] == nil {
		h.clients[client.RecipientID] = make(map[*Client]bool)
	}
	h.clients[client.RecipientID][client] = true

	h.logger.WithField("recipient_id", client.RecipientID.Hex()).
		WithField("kind", client.Kind).
		Debug("WebSocket client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.RecipientID]
	if !ok || !set[client] {
		return
	}

	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.RecipientID)
	}
	close(client.send)

	h.logger.WithField("recipient_id", client.RecipientID.Hex()).Debug("WebSocket client unregistered")
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, set := range h.clients {
		for client := range set {
			h.removeLocked(client)
		}
	}
}

// SendToRecipient queues message on every connection of recipientID and reports
// how many connections received it. Connections whose buffer is full are dropped.
func (h *Hub) SendToRecipient(recipientID primitive.ObjectID, message Message) int {
	message.RecipientID = recipientID
	if message.Timestamp == 0 {
		message.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal websocket message")
		return 0
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	delivered := 0
	for client := range h.clients[recipientID] {
		select {
		case client.send <- data:
			delivered++
		default:
			h.removeLocked(client)
		}
	}
	return delivered
}

// ConnectedCount returns the number of live connections for recipientID.
func (h *Hub) ConnectedCount(recipientID primitive.ObjectID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients[recipientID])
}
