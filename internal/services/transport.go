package services

import (
	"github.com/google/uuid"
	"github.com/thereayou/geotrack/internal/websocket"
)

// Transport delivers events to live connections, fire and forget. The hub
// implements it; tests substitute a recorder.
type Transport interface {
	SendToConn(connID uuid.UUID, event websocket.EventType, payload any) error
	SendToConns(connIDs []uuid.UUID, event websocket.EventType, payload any)
}
