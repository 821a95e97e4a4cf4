package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"watchparty/internal/model"
	"watchparty/internal/service"
	"watchparty/internal/transport/rest/response"
)

// ChatHandler handles chat and reaction endpoints
type ChatHandler struct {
	chatSvc     *service.ChatService
	reactionSvc *service.ReactionService
}

func NewChatHandler(chatSvc *service.ChatService, reactionSvc *service.ReactionService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc, reactionSvc: reactionSvc}
}

// ListMessages handles GET /api/rooms/{id}/chat
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chatSvc.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"messages": msgs})
}

// PostMessage handles POST /api/rooms/{id}/chat
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	var req model.PostChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.chatSvc.Post(r.Context(), mux.Vars(r)["id"], who, req.Message)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.Created(w, map[string]interface{}{"message": msg})
}

// ListReactions handles GET /api/rooms/{id}/reactions
func (h *ChatHandler) ListReactions(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.reactionSvc.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.OK(w, map[string]interface{}{"reactions": grouped})
}

// PostReaction handles POST /api/rooms/{id}/reactions
func (h *ChatHandler) PostReaction(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}
	var req model.PostReactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reaction, err := h.reactionSvc.Post(r.Context(), mux.Vars(r)["id"], who, req.Type)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	response.Created(w, map[string]interface{}{"reaction": reaction})
}
