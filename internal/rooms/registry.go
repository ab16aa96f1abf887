package rooms

import (
	"sync"

	"github.com/google/uuid"
)

type room struct {
	creator uuid.UUID
	members map[uuid.UUID]struct{}
}

// Registry is the single source of truth for which rooms exist, who created
// them and who is currently inside. A room is born on the first join for an
// unseen id and dies when its creator disconnects.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*room),
	}
}

func (r *Registry) Exists(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[roomID]
	return ok
}

// CreateOrGetCreator records connID as the creator of roomID if the id has
// never been seen, and reports whether this call created the room. The
// check-and-set is a single step under the registry lock, so at most one
// caller ever observes created = true for a given id.
func (r *Registry) CreateOrGetCreator(roomID string, connID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; ok {
		return false
	}

	r.rooms[roomID] = &room{
		creator: connID,
		members: map[uuid.UUID]struct{}{connID: {}},
	}
	return true
}

func (r *Registry) AddMember(roomID string, connID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return ErrUnknownRoom
	}
	rm.members[connID] = struct{}{}
	return nil
}

func (r *Registry) RemoveMember(roomID string, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rm, ok := r.rooms[roomID]; ok {
		delete(rm.members, connID)
	}
}

// MembersOf returns the current membership of roomID, or an empty slice for
// an unknown id.
func (r *Registry) MembersOf(roomID string) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return []uuid.UUID{}
	}

	members := make([]uuid.UUID, 0, len(rm.members))
	for id := range rm.members {
		members = append(members, id)
	}
	return members
}

func (r *Registry) CreatorOf(roomID string) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return uuid.Nil, false
	}
	return rm.creator, true
}

// Destroy removes all registry state for roomID. History kept elsewhere is
// deliberately untouched.
func (r *Registry) Destroy(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, roomID)
}
