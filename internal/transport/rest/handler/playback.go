package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"watchparty/internal/model"
	"watchparty/internal/service"
	"watchparty/internal/transport/rest/response"
)

// PlaybackHandler handles host playback sync endpoints
type PlaybackHandler struct {
	playbackSvc *service.PlaybackService
}

func NewPlaybackHandler(playbackSvc *service.PlaybackService) *PlaybackHandler {
	return &PlaybackHandler{playbackSvc: playbackSvc}
}

// Sync handles POST /api/rooms/{id}/sync
func (h *PlaybackHandler) Sync(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	var req model.SyncRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d := req.Directive()
	if err := h.playbackSvc.Broadcast(r.Context(), mux.Vars(r)["id"], who.UserID, d); err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"event": d})
}

// Recent handles GET /api/rooms/{id}/sync-events
func (h *PlaybackHandler) Recent(w http.ResponseWriter, r *http.Request) {
	recs, err := h.playbackSvc.Recent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"events": recs})
}
