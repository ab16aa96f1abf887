package models

import (
	"time"

	"github.com/google/uuid"
)

// Position is a WGS84 coordinate pair.
type Position struct {
	Lat float64 `gorm:"not null" json:"lat"`
	Lng float64 `gorm:"not null" json:"lng"`
}

// LocationUpdate is one position report from one room member. Records are
// immutable once captured and only ever appended to a room's history.
type LocationUpdate struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	RoomID     string    `gorm:"index:idx_room_captured,priority:1;not null" json:"roomId"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null" json:"senderId"`
	Nickname   string    `json:"nickname"`
	Position   Position  `gorm:"embedded" json:"position"`
	CapturedAt time.Time `gorm:"index:idx_room_captured,priority:2;not null" json:"capturedAt"`
}

func (LocationUpdate) TableName() string {
	return "location_updates"
}
