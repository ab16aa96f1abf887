package dto

import "github.com/thereayou/geotrack/internal/models"

type UpdateLocationRequest struct {
	Position models.Position `json:"position"`
}

// LocationBroadcast fans out to every member of the sender's room, the
// sender included.
type LocationBroadcast struct {
	SenderID string          `json:"senderId"`
	Nickname string          `json:"nickname"`
	Position models.Position `json:"position"`
}

type HistoryRequest struct {
	RoomID string `json:"roomId"`
}

type HistoryResponse struct {
	History []models.LocationUpdate `json:"history"`
}
