package dto

import "github.com/thereayou/geotrack/internal/models"

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// JoinRoomRequest is the payload of a joinRoom event. The first join for an
// unseen roomId creates the room; there is no separate create operation.
type JoinRoomRequest struct {
	RoomID   string           `json:"roomId"`
	Nickname string           `json:"nickname,omitempty"`
	Position *models.Position `json:"position,omitempty"`
}

// RoomJoinedResponse goes back to the requester only.
type RoomJoinedResponse struct {
	Status   string `json:"status"`
	RoomID   string `json:"roomId,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Error    string `json:"error,omitempty"`
}

// UserJoinedResponse notifies the room creator about a new member.
type UserJoinedResponse struct {
	UserID              string   `json:"userId"`
	Nickname            string   `json:"nickname"`
	TotalConnectedUsers []string `json:"totalConnectedUsers"`
}

// UserLeftResponse notifies the room creator that a member disconnected.
type UserLeftResponse struct {
	UserID              string   `json:"userId"`
	TotalConnectedUsers []string `json:"totalConnectedUsers"`
}

type RoomDestroyedResponse struct {
	Status string `json:"status"`
}

// RoomSnapshot is the HTTP view of a room's live state.
type RoomSnapshot struct {
	RoomID      string   `json:"roomId"`
	Alive       bool     `json:"alive"`
	CreatorID   string   `json:"creatorId,omitempty"`
	MemberCount int      `json:"memberCount"`
	Members     []string `json:"members"`
}
