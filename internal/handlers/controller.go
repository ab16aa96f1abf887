package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/geotrack/internal/handlers/dto"
	"github.com/thereayou/geotrack/internal/models"
	"github.com/thereayou/geotrack/internal/rooms"
	"github.com/thereayou/geotrack/internal/services"
	ws "github.com/thereayou/geotrack/internal/websocket"
)

const persistTimeout = 5 * time.Second

// RoomController is the state machine behind every inbound event: it decides
// create-vs-join, records and fans out location updates, and runs the
// teardown cascade when a creator disconnects. All registry and session
// mutation happens here, serialized under one mutex, so the create
// check-and-set stays atomic relative to every other event.
type RoomController struct {
	mu sync.Mutex

	registry  *rooms.Registry
	history   *rooms.History
	sessions  *rooms.Sessions
	transport services.Transport
	persister services.LocationPersister // nil disables external persistence
}

func NewRoomController(
	registry *rooms.Registry,
	history *rooms.History,
	sessions *rooms.Sessions,
	transport services.Transport,
	persister services.LocationPersister,
) *RoomController {
	return &RoomController{
		registry:  registry,
		history:   history,
		sessions:  sessions,
		transport: transport,
		persister: persister,
	}
}

func (c *RoomController) HandleEvent(connID uuid.UUID, msg *ws.Message) error {
	switch msg.Type {
	case ws.EventJoinRoom:
		return c.handleJoinRoom(connID, msg.Data)

	case ws.EventUpdateLocation:
		return c.handleUpdateLocation(connID, msg.Data)

	case ws.EventGetLocationHistory:
		return c.handleHistoryRequest(connID, msg.Data)

	default:
		log.Debug().Str("conn", connID.String()).Str("event", string(msg.Type)).Msg("ignoring unknown event")
		return nil
	}
}

func (c *RoomController) handleJoinRoom(connID uuid.UUID, data json.RawMessage) error {
	var req dto.JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendJoinError(connID, "bad payload")
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions.Get(connID)
	if !ok {
		c.sendJoinError(connID, "no session")
		return rooms.ErrUnknownSession
	}

	// A session never moves between rooms; rejoining the same room is an
	// idempotent acknowledgement.
	if sess.InRoom && sess.RoomID != req.RoomID {
		c.sendJoinError(connID, "already in a room")
		return nil
	}
	rejoin := sess.InRoom && sess.RoomID == req.RoomID

	nickname := req.Nickname
	if nickname == "" {
		nickname = sess.Nickname
	}

	created := c.registry.CreateOrGetCreator(req.RoomID, connID)
	if created {
		c.history.InitRoom(req.RoomID)

		if err := c.sessions.BindRoom(connID, req.RoomID, nickname); err != nil {
			c.sendJoinError(connID, "join failed")
			return err
		}
		sess, _ = c.sessions.Get(connID)

		if req.Position != nil {
			c.recordAndBroadcast(connID, sess, *req.Position)
		}

		log.Info().Str("room", req.RoomID).Str("conn", connID.String()).Str("nickname", sess.Nickname).Msg("room created")
		c.sendJoined(connID, req.RoomID, sess.Nickname)
		return nil
	}

	if err := c.registry.AddMember(req.RoomID, connID); err != nil {
		c.sendJoinError(connID, "room not found")
		return err
	}
	if err := c.sessions.BindRoom(connID, req.RoomID, nickname); err != nil {
		c.sendJoinError(connID, "join failed")
		return err
	}
	sess, _ = c.sessions.Get(connID)

	// Tell the creator, unless the joiner is the creator itself coming back
	// under the same connection, or this is a no-op rejoin.
	if creator, ok := c.registry.CreatorOf(req.RoomID); ok && creator != connID && !rejoin {
		c.transport.SendToConn(creator, ws.EventUserJoinedRoom, dto.UserJoinedResponse{
			UserID:              connID.String(),
			Nickname:            sess.Nickname,
			TotalConnectedUsers: idStrings(c.registry.MembersOf(req.RoomID)),
		})
	}

	log.Info().Str("room", req.RoomID).Str("conn", connID.String()).Str("nickname", sess.Nickname).Msg("joined room")
	c.sendJoined(connID, req.RoomID, sess.Nickname)
	return nil
}

func (c *RoomController) handleUpdateLocation(connID uuid.UUID, data json.RawMessage) error {
	var req dto.UpdateLocationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ws.ErrInvalidPayload
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions.Get(connID)
	if !ok || !sess.InRoom {
		// Updates outside a room are dropped, not answered.
		log.Debug().Str("conn", connID.String()).Msg("location update without a room, dropping")
		return nil
	}
	if !c.registry.Exists(sess.RoomID) {
		log.Debug().Str("conn", connID.String()).Str("room", sess.RoomID).Msg("location update for destroyed room, dropping")
		return nil
	}

	c.recordAndBroadcast(connID, sess, req.Position)
	return nil
}

// recordAndBroadcast appends one record and fans it out to the whole room,
// sender included. Call with the controller lock held and the room alive.
func (c *RoomController) recordAndBroadcast(connID uuid.UUID, sess rooms.Session, pos models.Position) {
	rec := models.LocationUpdate{
		RoomID:     sess.RoomID,
		SenderID:   connID,
		Nickname:   sess.Nickname,
		Position:   pos,
		CapturedAt: time.Now(),
	}

	if err := c.history.Append(rec); err != nil {
		// The registry thinks the room is alive but the log was never
		// initialized; broadcast still proceeds from the in-memory path.
		log.Warn().Err(err).Str("room", sess.RoomID).Msg("history append rejected")
	} else {
		c.persist(rec)
	}

	c.transport.SendToConns(c.registry.MembersOf(sess.RoomID), ws.EventUpdateLocationResponse, dto.LocationBroadcast{
		SenderID: connID.String(),
		Nickname: sess.Nickname,
		Position: pos,
	})
}

func (c *RoomController) handleHistoryRequest(connID uuid.UUID, data json.RawMessage) error {
	var req dto.HistoryRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ws.ErrInvalidPayload
	}

	// Answered for anyone from whatever exists, membership or not; history
	// outlives the room on purpose.
	return c.transport.SendToConn(connID, ws.EventLocationHistory, dto.HistoryResponse{
		History: c.history.ReadAll(req.RoomID),
	})
}

// HandleDisconnect runs once per connection. A creator going away destroys
// the room for everyone; a member going away only shrinks it.
func (c *RoomController) HandleDisconnect(connID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions.Close(connID)
	if !ok || !sess.InRoom {
		return
	}

	creator, alive := c.registry.CreatorOf(sess.RoomID)
	if !alive {
		return
	}

	if creator == connID {
		members := c.registry.MembersOf(sess.RoomID)
		c.transport.SendToConns(members, ws.EventRoomDestroyed, dto.RoomDestroyedResponse{Status: dto.StatusOK})
		c.registry.Destroy(sess.RoomID)
		// History for the id is retained.
		log.Info().Str("room", sess.RoomID).Int("members", len(members)).Msg("creator disconnected, room destroyed")
		return
	}

	c.registry.RemoveMember(sess.RoomID, connID)
	if err := c.transport.SendToConn(creator, ws.EventUserLeftRoom, dto.UserLeftResponse{
		UserID:              connID.String(),
		TotalConnectedUsers: idStrings(c.registry.MembersOf(sess.RoomID)),
	}); err != nil && !errors.Is(err, ws.ErrUnknownClient) {
		log.Warn().Err(err).Str("room", sess.RoomID).Msg("notify creator of leave")
	}
	log.Info().Str("room", sess.RoomID).Str("conn", connID.String()).Msg("member left room")
}

func (c *RoomController) persist(rec models.LocationUpdate) {
	if c.persister == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := c.persister.SaveLocation(ctx, &rec); err != nil {
			log.Warn().Err(err).Str("room", rec.RoomID).Msg("persist location failed")
		}
	}()
}

func (c *RoomController) sendJoined(connID uuid.UUID, roomID, nickname string) {
	c.transport.SendToConn(connID, ws.EventRoomJoined, dto.RoomJoinedResponse{
		Status:   dto.StatusOK,
		RoomID:   roomID,
		Nickname: nickname,
	})
}

func (c *RoomController) sendJoinError(connID uuid.UUID, reason string) {
	c.transport.SendToConn(connID, ws.EventRoomJoined, dto.RoomJoinedResponse{
		Status: dto.StatusError,
		Error:  reason,
	})
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
