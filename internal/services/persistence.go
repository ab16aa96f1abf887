package services

import (
	"context"

	"github.com/thereayou/geotrack/internal/models"
)

// LocationPersister copies location records to a store outside process
// memory. Writes are best effort: the in-memory append stays authoritative
// and a failed persist is only ever logged.
type LocationPersister interface {
	SaveLocation(ctx context.Context, rec *models.LocationUpdate) error
}

// HistoryReader reads persisted records back, oldest first. Implemented by
// backends that support it (postgres, redis); the file dump does not.
type HistoryReader interface {
	RoomHistory(ctx context.Context, roomID string, limit int) ([]models.LocationUpdate, error)
}
