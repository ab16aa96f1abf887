package rooms

import (
	"sync"

	"github.com/thereayou/geotrack/internal/models"
)

// History is the in-memory append-only log of location updates, one log per
// room id. Logs are created by InitRoom and never removed: room destruction
// keeps the trail around so a later history request by id still answers.
type History struct {
	mu   sync.RWMutex
	logs map[string][]models.LocationUpdate
}

func NewHistory() *History {
	return &History{
		logs: make(map[string][]models.LocationUpdate),
	}
}

// InitRoom creates an empty log for roomID. Calling it again for a room that
// already has records is a no-op.
func (h *History) InitRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.logs[roomID]; !ok {
		h.logs[roomID] = []models.LocationUpdate{}
	}
}

// Append adds rec to its room's log. The room must have been initialized;
// whether the room is still alive is the caller's concern, not the store's.
func (h *History) Append(rec models.LocationUpdate) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	log, ok := h.logs[rec.RoomID]
	if !ok {
		return ErrUnknownRoom
	}
	h.logs[rec.RoomID] = append(log, rec)
	return nil
}

// ReadAll returns the room's records in append order. Unknown ids yield an
// empty slice rather than an error so stale history requests degrade
// gracefully.
func (h *History) ReadAll(roomID string) []models.LocationUpdate {
	h.mu.RLock()
	defer h.mu.RUnlock()

	log, ok := h.logs[roomID]
	if !ok {
		return []models.LocationUpdate{}
	}

	out := make([]models.LocationUpdate, len(log))
	copy(out, log)
	return out
}
