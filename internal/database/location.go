package database

import (
	"context"

	"github.com/thereayou/geotrack/internal/models"
)

func (d *Database) SaveLocation(ctx context.Context, rec *models.LocationUpdate) error {
	return d.db.WithContext(ctx).Create(rec).Error
}

// RoomHistory returns a room's persisted records oldest first. limit <= 0
// means everything.
func (d *Database) RoomHistory(ctx context.Context, roomID string, limit int) ([]models.LocationUpdate, error) {
	var records []models.LocationUpdate

	query := d.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("captured_at ASC, id ASC")

	if limit > 0 {
		// Keep the newest records when trimming, same as the in-memory path.
		var total int64
		if err := d.db.WithContext(ctx).Model(&models.LocationUpdate{}).Where("room_id = ?", roomID).Count(&total).Error; err != nil {
			return nil, err
		}
		if int(total) > limit {
			query = query.Offset(int(total) - limit)
		}
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
