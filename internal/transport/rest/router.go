package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"watchparty/internal/hub"
	pkglog "watchparty/internal/log"
	"watchparty/internal/service"
	"watchparty/internal/transport/rest/handler"
	"watchparty/internal/transport/rest/middleware"
	"watchparty/internal/transport/sse"
	"watchparty/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	RoomService     *service.RoomService
	ChatService     *service.ChatService
	ReactionService *service.ReactionService
	PlaybackService *service.PlaybackService
	Hub             *hub.Hub
	Logger          zerolog.Logger
	AllowedOrigins  []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	roomHandler := handler.NewRoomHandler(c.RoomService)
	chatHandler := handler.NewChatHandler(c.ChatService, c.ReactionService)
	playbackHandler := handler.NewPlaybackHandler(c.PlaybackService)
	sseHandler := sse.NewHandler(c.Hub, c.RoomService)
	wsHandler := ws.NewHandler(c.Hub, c.RoomService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(pkglog.HTTPMiddleware(c.Logger))
	r.Use(middleware.CORS(c.AllowedOrigins))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/rooms", roomHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms/{id}/chat", chatHandler.ListMessages).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms/{id}/reactions", chatHandler.ListReactions).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms/{id}/sync-events", playbackHandler.Recent).Methods("GET", "OPTIONS")

	// Streams
	api.HandleFunc("/rooms/{id}/events", sseHandler.Stream).Methods("GET", "OPTIONS")
	api.HandleFunc("/rooms/{id}/ws", wsHandler.Stream).Methods("GET")

	// Authenticated routes; host checks happen in the services
	user := api.NewRoute().Subrouter()
	user.Use(authMW.RequireUser)

	user.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	user.HandleFunc("/rooms/{id}", roomHandler.Delete).Methods("DELETE", "OPTIONS")
	user.HandleFunc("/rooms/{id}/join", roomHandler.Join).Methods("POST", "OPTIONS")
	user.HandleFunc("/rooms/{id}/leave", roomHandler.Leave).Methods("POST", "OPTIONS")
	user.HandleFunc("/rooms/{id}/state", roomHandler.UpdateState).Methods("POST", "OPTIONS")
	user.HandleFunc("/rooms/{id}/end", roomHandler.End).Methods("POST", "OPTIONS")
	user.HandleFunc("/rooms/{id}/chat", chatHandler.PostMessage).Methods("POST", "OPTIONS")
	user.HandleFunc("/rooms/{id}/reactions", chatHandler.PostReaction).Methods("POST", "OPTIONS")
	user.HandleFunc("/rooms/{id}/sync", playbackHandler.Sync).Methods("POST", "OPTIONS")

	return r
}
