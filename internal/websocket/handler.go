package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one connection until the peer goes away.
func ServeWs(hub *Hub, recommender Recommender, c *websocket.Conn, userID string) {
	client := &Client{
		Hub:         hub,
		Conn:        c,
		UserID:      userID,
		Send:        make(chan []byte, 256),
		recommender: recommender,
	}
	if !client.Hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
