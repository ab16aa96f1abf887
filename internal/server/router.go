package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/geotrack/internal/handlers"
	"github.com/thereayou/geotrack/internal/middleware"
)

func APIEndpoints(r *gin.Engine, wsH *handlers.WebSocketHandler, roomH *handlers.RoomHandler) {
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", wsH.HandleWebSocket)

	rooms := r.Group("/rooms")
	{
		rooms.GET("/new-id", roomH.NewRoomID)
		rooms.GET("/:id", roomH.GetRoom)
		rooms.GET("/:id/history", roomH.GetRoomHistory)
	}
}
