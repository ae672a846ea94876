package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // editor commands can carry a whole document
)

// MessageHandler receives text frames read from a client.
type MessageHandler func(c *Client, data []byte)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Topic the client listens on.
	Topic string

	UserID uuid.UUID

	// Buffered channel of outbound messages.
	Send chan []byte

	onMessage MessageHandler
}

// Reply queues a message for this client only.
func (c *Client) Reply(data []byte) {
	select {
	case c.Send <- data:
	default:
		c.Hub.logger.Warn("Client", "Reply dropped, send buffer full", map[string]interface{}{"topic": c.Topic})
	}
}

// readPump pumps messages from the websocket connection to the handler.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"topic": c.Topic, "error": err.Error()})
			}
			break
		}
		if c.onMessage != nil {
			c.onMessage(c, message)
		}
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
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON message per frame; the browser parses each frame.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Hub.logger.Warn("Client", "Ping failed", map[string]interface{}{"topic": c.Topic, "error": err.Error()})
				return
			}
		}
	}
}
