package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/geotrack/internal/handlers/dto"
	"github.com/thereayou/geotrack/internal/rooms"
	"github.com/thereayou/geotrack/internal/services"
	"github.com/thereayou/geotrack/pkg/roomid"
)

// RoomHandler serves the read-only HTTP surface: room snapshots, history by
// id and suggested room codes. No membership checks anywhere, matching the
// websocket history policy.
type RoomHandler struct {
	registry *rooms.Registry
	history  *rooms.History
	reader   services.HistoryReader // nil when the backend cannot read back
}

func NewRoomHandler(registry *rooms.Registry, history *rooms.History, reader services.HistoryReader) *RoomHandler {
	return &RoomHandler{
		registry: registry,
		history:  history,
		reader:   reader,
	}
}

// GetRoom returns the live state of a room. Destroyed or never-created rooms
// answer with alive=false instead of a 404 so clients can poll a code.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("id")

	snapshot := dto.RoomSnapshot{
		RoomID:  roomID,
		Members: []string{},
	}

	if creator, ok := h.registry.CreatorOf(roomID); ok {
		members := h.registry.MembersOf(roomID)
		snapshot.Alive = true
		snapshot.CreatorID = creator.String()
		snapshot.MemberCount = len(members)
		for _, id := range members {
			snapshot.Members = append(snapshot.Members, id.String())
		}
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetRoomHistory returns the room's trail, oldest first. The in-memory log
// is authoritative; when it is empty and a readable backend is configured,
// records persisted by a previous process are served instead.
func (h *RoomHandler) GetRoomHistory(c *gin.Context) {
	roomID := c.Param("id")

	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	records := h.history.ReadAll(roomID)
	if len(records) == 0 && h.reader != nil {
		persisted, err := h.reader.RoomHistory(c.Request.Context(), roomID, limit)
		if err != nil {
			log.Warn().Err(err).Str("room", roomID).Msg("persisted history read")
		} else {
			records = persisted
		}
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{History: records})
}

// NewRoomID hands out a fresh short code. The client is free to ignore it;
// any first join creates its room.
func (h *RoomHandler) NewRoomID(c *gin.Context) {
	id, err := roomid.New()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate room id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": id})
}
