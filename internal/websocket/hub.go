package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventType names the events on the wire.
type EventType string

const (
	// Client -> server
	EventJoinRoom           EventType = "joinRoom"
	EventUpdateLocation     EventType = "updateLocation"
	EventGetLocationHistory EventType = "getLocationHistory"

	// Server -> client
	EventRoomJoined             EventType = "roomJoined"
	EventUserJoinedRoom         EventType = "userJoinedRoom"
	EventUpdateLocationResponse EventType = "updateLocationResponse"
	EventLocationHistory        EventType = "locationHistory"
	EventRoomDestroyed          EventType = "roomDestroyed"
	EventUserLeftRoom           EventType = "userLeftRoom"
)

type Message struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub owns the live connections and fans event payloads out to them. It knows
// nothing about rooms; callers hand it the connection ids to deliver to.
type Hub struct {
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	log.Debug().Str("conn", client.ID.String()).Msg("client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
		log.Debug().Str("conn", client.ID.String()).Msg("client unregistered")
	}
}

// SendToConn delivers one event to one connection. Unknown ids are a normal
// condition (the peer may have just disconnected) and report ErrUnknownClient.
func (h *Hub) SendToConn(connID uuid.UUID, event EventType, payload any) error {
	data, err := encodeEvent(event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return ErrUnknownClient
	}

	select {
	case client.Send <- data:
		return nil
	default:
		log.Warn().Str("conn", connID.String()).Str("event", string(event)).Msg("client send queue full, dropping")
		return ErrClientQueueFull
	}
}

// SendToConns fans one event out to every listed connection, best effort.
// The payload is marshaled once; delivery order follows call order.
func (h *Hub) SendToConns(connIDs []uuid.UUID, event EventType, payload any) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(event)).Msg("encode broadcast")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range connIDs {
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Warn().Str("conn", id.String()).Str("event", string(event)).Msg("client send queue full, dropping")
		}
	}
}

// ConnectedIDs reports which of the given connections are currently live.
func (h *Hub) ConnectedIDs(connIDs []uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]uuid.UUID, 0, len(connIDs))
	for _, id := range connIDs {
		if _, ok := h.clients[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func encodeEvent(event EventType, payload any) ([]byte, error) {
	msg := Message{
		Type:      event,
		Timestamp: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Data = data
	}

	return json.Marshal(msg)
}
