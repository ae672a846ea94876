package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection on topic and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, topic string, userID uuid.UUID, onMessage MessageHandler) {
	client := &Client{
		Hub:       hub,
		Conn:      conn,
		Topic:     topic,
		UserID:    userID,
		Send:      make(chan []byte, 256),
		onMessage: onMessage,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
