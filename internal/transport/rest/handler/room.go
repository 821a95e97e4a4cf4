package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"watchparty/internal/model"
	"watchparty/internal/service"
	"watchparty/internal/transport/rest/response"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	roomSvc *service.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// List handles GET /api/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomSvc.ListActive(r.Context())
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"rooms": rooms})
}

// Create handles POST /api/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	var req model.CreateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), who, req)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.Created(w, map[string]interface{}{"room": room})
}

// Get handles GET /api/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomSvc.GetRoom(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"room": room})
}

// Delete handles DELETE /api/rooms/{id}
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.roomSvc.Delete(r.Context(), mux.Vars(r)["id"], who.UserID); err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"deleted": true})
}

// Join handles POST /api/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	room, err := h.roomSvc.Join(r.Context(), mux.Vars(r)["id"], who)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"room": room})
}

// Leave handles POST /api/rooms/{id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	room, err := h.roomSvc.Leave(r.Context(), mux.Vars(r)["id"], who)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"room": room})
}

// UpdateState handles POST /api/rooms/{id}/state
func (h *RoomHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	var req model.UpdateStateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.roomSvc.UpdateState(r.Context(), mux.Vars(r)["id"], who.UserID, req.RoomState)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"roomState": room.RoomState, "room": room})
}

// End handles POST /api/rooms/{id}/end
func (h *RoomHandler) End(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	room, err := h.roomSvc.End(r.Context(), mux.Vars(r)["id"], who.UserID)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"room": room})
}
