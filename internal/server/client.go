package server

import (
	"time"

	"github.com/gorilla/websocket"
)

// Client is one connected spectator.
type Client struct {
	ID       uint32
	Conn     *websocket.Conn
	Send     chan []byte
	JoinedAt time.Time
}

// NewClient creates a spectator with a buffered outgoing queue.
func NewClient(id uint32, conn *websocket.Conn) *Client {
	return &Client{
		ID:       id,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		JoinedAt: time.Now(),
	}
}

// queue hands data to the write pump without blocking. It reports false when
// the spectator is too slow and the message was dropped.
func (c *Client) queue(data []byte) bool {
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}
