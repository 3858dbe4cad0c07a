package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"wtf2eat-be/internal/dto"
	"wtf2eat-be/internal/pkg/serverutils"
	"wtf2eat-be/pkg/ai/pipeline"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192

	MessageGenerate       = "generate"
	MessageRecommendation = "recommendation"
	MessageError          = "error"
)

// Recommender is implemented by service.IRecommendationService.
type Recommender interface {
	Generate(ctx context.Context, userId string, req dto.GenerateRequest) <-chan pipeline.Event
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID string
	Send   chan []byte

	recommender Recommender

	mu     sync.Mutex
	cancel context.CancelFunc
	runs   sync.WaitGroup
}

// readPump reads generate requests until the connection drops. A new request
// cancels the run in flight.
func (c *Client) readPump() {
	defer func() {
		c.stopRun()
		c.runs.Wait()
		c.Hub.leave(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			return
		}
		c.handleMessage(raw)
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg dto.WsGenerateMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.replyError("Malformed message")
		return
	}
	if msg.Type != MessageGenerate {
		c.replyError("Unknown message type: " + msg.Type)
		return
	}
	if err := serverutils.Validate(msg.GenerateRequest); err != nil {
		c.replyError(err.Error())
		return
	}

	c.stopRun()
	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	events := c.recommender.Generate(ctx, c.UserID, msg.GenerateRequest)
	c.runs.Add(1)
	go func() {
		defer c.runs.Done()
		for e := range events {
			if !c.reply(ctx, MessageRecommendation, e) {
				return
			}
		}
	}()
}

func (c *Client) stopRun() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Client) replyError(message string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	c.reply(ctx, MessageError, message)
}

// reply queues one envelope for this connection only.
func (c *Client) reply(ctx context.Context, kind string, data interface{}) bool {
	msg, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one frame per message, clients parse each as JSON
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
