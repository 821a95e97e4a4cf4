// Package ws serves a room's event stream over WebSocket for clients that
// prefer it to text/event-stream.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"watchparty/internal/hub"
	pkglog "watchparty/internal/log"
	"watchparty/internal/model"
	"watchparty/internal/transport/rest/response"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // streams are public
	},
}

// SnapshotSource builds the first event of every stream from stored state.
type SnapshotSource interface {
	Snapshot(ctx context.Context, roomID string) (model.SnapshotEvent, error)
}

// Message is one event as sent on the socket.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handler handles GET /api/rooms/{id}/ws
type Handler struct {
	hub   *hub.Hub
	rooms SnapshotSource
}

// NewHandler creates a new WebSocket handler
func NewHandler(h *hub.Hub, rooms SnapshotSource) *Handler {
	return &Handler{hub: h, rooms: rooms}
}

// Stream mirrors the SSE stream: snapshot first, then every room event.
// Missing rooms are rejected before the upgrade.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]

	sub, cancel := h.hub.Subscribe(roomID)
	defer cancel()

	snap, err := h.rooms.Snapshot(r.Context(), roomID)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}

	l := pkglog.Ctx(r.Context()).With().
		Str(pkglog.FieldRoomID, roomID).
		Str(pkglog.FieldSubscriberID, sub.ID).
		Str(pkglog.FieldTransport, "ws").
		Logger()

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer wsConn.Close()

	closed := make(chan struct{})
	go readPump(wsConn, closed)

	if err := writeMessage(wsConn, hub.Frame{Event: string(model.EventSnapshot), Data: data}); err != nil {
		return
	}
	l.Debug().Msg("stream opened")
	writePump(wsConn, sub, closed, l)
}

// readPump discards client messages and closes done once the peer goes away
// or stops answering pings.
func readPump(wsConn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only writer on wsConn. Keep-alive comment frames become
// pings.
func writePump(wsConn *websocket.Conn, sub *hub.Subscriber, closed <-chan struct{}, l zerolog.Logger) {
	for {
		select {
		case <-closed:
			l.Debug().Msg("stream closed by client")
			return
		case <-sub.Done():
			if !drain(wsConn, sub) {
				return
			}
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			l.Debug().Msg("stream closed by hub")
			return
		case f := <-sub.Frames():
			if err := writeMessage(wsConn, f); err != nil {
				l.Debug().Err(err).Msg("stream write failed")
				return
			}
		}
	}
}

// drain writes frames queued before the subscriber closed. It reports false
// if a write failed.
func drain(wsConn *websocket.Conn, sub *hub.Subscriber) bool {
	for {
		select {
		case f := <-sub.Frames():
			if writeMessage(wsConn, f) != nil {
				return false
			}
		default:
			return true
		}
	}
}

func writeMessage(wsConn *websocket.Conn, f hub.Frame) error {
	wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	if f.IsComment() {
		return wsConn.WriteMessage(websocket.PingMessage, nil)
	}
	return wsConn.WriteJSON(Message{Event: f.Event, Data: f.Data})
}
