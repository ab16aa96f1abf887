package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/geotrack/internal/rooms"
	ws "github.com/thereayou/geotrack/internal/websocket"
)

// WebSocketHandler upgrades HTTP requests into tracked connections.
type WebSocketHandler struct {
	hub        *ws.Hub
	controller *RoomController
	sessions   *rooms.Sessions
	upgrader   websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, controller *RoomController, sessions *rooms.Sessions) *WebSocketHandler {
	return &WebSocketHandler{
		hub:        hub,
		controller: controller,
		sessions:   sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origin once the web client's host is settled
				return true
			},
		},
	}
}

// HandleWebSocket assigns the connection its id, opens the presence session
// and starts the pumps.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.sessions.Open(client.ID)
	h.hub.Register(client)

	log.Info().Str("conn", client.ID.String()).Str("remote", conn.RemoteAddr().String()).Msg("connection opened")

	go client.WritePump()
	go client.ReadPump(h.controller)
}
