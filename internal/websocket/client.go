package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024 // 64KB
)

// EventHandler receives decoded inbound events. HandleDisconnect fires
// exactly once per connection, after the read loop ends for any reason.
type EventHandler interface {
	HandleEvent(connID uuid.UUID, msg *Message) error
	HandleDisconnect(connID uuid.UUID)
}

// Client is the transport handle for one websocket connection. Presence
// state (room, nickname) deliberately lives elsewhere, keyed by ID.
type Client struct {
	ID   uuid.UUID
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New(),
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}
}

// ReadPump reads inbound events until the connection drops, then runs
// disconnect handling before the client is discarded.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		handler.HandleDisconnect(c.ID)
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("conn", c.ID.String()).Msg("websocket read")
			}
			break
		}

		if err := handler.HandleEvent(c.ID, &msg); err != nil {
			log.Error().Err(err).Str("conn", c.ID.String()).Str("event", string(msg.Type)).Msg("handle event")
		}
	}
}

// WritePump drains the send queue to the socket and keeps the connection
// alive with periodic pings. The single writer goroutine per connection is a
// gorilla/websocket requirement.
func (c *Client) WritePump() {
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
