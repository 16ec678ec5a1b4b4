package http

import (
	stdhttp "net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"roomcast/internal/core"
)

// RoomHandlers provides HTTP handlers for room introspection endpoints.
type RoomHandlers struct {
	reg *core.Registry
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(reg *core.Registry, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{reg: reg, log: logger}
}

// RoomResponse represents an active room in API responses.
type RoomResponse struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// ListRooms reports the active rooms and their member counts.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	counts := h.reg.Rooms()

	rooms := make([]RoomResponse, 0, len(counts))
	for name, members := range counts {
		rooms = append(rooms, RoomResponse{Name: name, Members: members})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })

	c.JSON(stdhttp.StatusOK, rooms)
}
