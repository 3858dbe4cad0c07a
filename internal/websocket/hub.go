package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"wtf2eat-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Envelope is every server to client websocket message.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Hub tracks the open connections of each user on this instance and relays
// notifications through redis to the connections held by other instances.
type Hub struct {
	// user id -> connections (multi-device)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// nil runs the hub single-instance
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.UserID]
			for i, c := range clients {
				if c == client {
					h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.UserID]) == 0 {
				delete(h.clients, client.UserID)
				h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// join hands the client to the run loop. It reports false once the hub is stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave hands the client back. After Stop nobody reads unregister, so it
// returns instead of blocking.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connected reports how many connections a user holds on this instance.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Notify implements service.NotificationDelivery.
func (h *Hub) Notify(userID, kind string, data interface{}) {
	msg, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode notification", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(userID, msg)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:       h.instanceID,
			TargetUserID: userID,
			Message:      msg,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish to cluster", map[string]interface{}{"error": err.Error()})
		}
	}
}

// A full buffer drops the message; the slow connection is reaped by its own
// write deadline.
func (h *Hub) deliverLocal(userID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[userID] {
		select {
		case client.Send <- msg:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage([]byte(msg.Payload))
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var m clusterMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		h.logger.Warn("Hub", "Malformed cluster message", map[string]interface{}{"error": err.Error()})
		return
	}
	// already delivered locally by Notify
	if m.Origin == h.instanceID {
		return
	}
	h.deliverLocal(m.TargetUserID, m.Message)
}
