package rooms

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the per-connection presence state. It lives in a side table
// keyed by connection id instead of hanging off the transport's connection
// object, so nothing here depends on a websocket type.
type Session struct {
	ConnID   uuid.UUID
	RoomID   string
	Nickname string

	// InRoom distinguishes "never joined" from a joined room whose id
	// happens to be empty; empty ids are legal identifiers here.
	InRoom bool
}

type Sessions struct {
	mu     sync.RWMutex
	byConn map[uuid.UUID]*Session
}

func NewSessions() *Sessions {
	return &Sessions{
		byConn: make(map[uuid.UUID]*Session),
	}
}

// Open creates the session for a fresh connection. The nickname defaults to
// the connection id until a join binds a real one.
func (s *Sessions) Open(connID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byConn[connID]; ok {
		return
	}
	s.byConn[connID] = &Session{
		ConnID:   connID,
		Nickname: connID.String(),
	}
}

func (s *Sessions) Get(connID uuid.UUID) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byConn[connID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// BindRoom attaches the session to roomID with the given nickname. A session
// never moves between rooms: rebinding to the same room is a no-op that keeps
// the original nickname, rebinding to a different one fails.
func (s *Sessions) BindRoom(connID uuid.UUID, roomID, nickname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byConn[connID]
	if !ok {
		return ErrUnknownSession
	}
	if sess.InRoom {
		if sess.RoomID == roomID {
			return nil
		}
		return ErrAlreadyInRoom
	}

	sess.RoomID = roomID
	sess.InRoom = true
	if nickname != "" {
		sess.Nickname = nickname
	}
	return nil
}

// Close discards the session and returns its final state so disconnect
// handling can run against it.
func (s *Sessions) Close(connID uuid.UUID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byConn[connID]
	if !ok {
		return Session{}, false
	}
	delete(s.byConn, connID)
	return *sess, true
}
