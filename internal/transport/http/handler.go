package http

import (
	"encoding/json"
	"net/http"

	"github.com/playgrid/relay-service/internal/service"
)

type Handler struct {
	registry *service.Registry
	rooms    *service.RoomService
}

func NewHandler(registry *service.Registry, rooms *service.RoomService) *Handler {
	return &Handler{
		registry: registry,
		rooms:    rooms,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Sessions: h.registry.Count(),
		Rooms:    h.rooms.Count(),
	})
}
