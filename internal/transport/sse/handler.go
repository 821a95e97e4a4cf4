// Package sse serves a room's event stream as text/event-stream.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"watchparty/internal/hub"
	pkglog "watchparty/internal/log"
	"watchparty/internal/model"
	"watchparty/internal/transport/rest/response"
)

// SnapshotSource builds the first event of every stream from stored state.
type SnapshotSource interface {
	Snapshot(ctx context.Context, roomID string) (model.SnapshotEvent, error)
}

// Handler handles GET /api/rooms/{id}/events
type Handler struct {
	hub   *hub.Hub
	rooms SnapshotSource
}

func NewHandler(h *hub.Hub, rooms SnapshotSource) *Handler {
	return &Handler{hub: h, rooms: rooms}
}

// Stream subscribes before reading the room so nothing published in between
// is missed, writes the snapshot, then relays queued frames until the client
// goes away or the hub drops the subscriber.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	ctx := r.Context()

	sub, cancel := h.hub.Subscribe(roomID)
	defer cancel()

	snap, err := h.rooms.Snapshot(ctx, roomID)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		response.ServiceError(w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive any server-wide write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache, no-transform")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	if header.Get("Access-Control-Allow-Origin") == "" {
		header.Set("Access-Control-Allow-Origin", "*")
	}
	w.WriteHeader(http.StatusOK)

	l := pkglog.Ctx(ctx).With().
		Str(pkglog.FieldRoomID, roomID).
		Str(pkglog.FieldSubscriberID, sub.ID).
		Str(pkglog.FieldTransport, "sse").
		Logger()

	if err := writeFrame(w, rc, hub.Frame{Event: string(model.EventSnapshot), Data: data}); err != nil {
		l.Debug().Err(err).Msg("stream write failed")
		return
	}
	l.Debug().Msg("stream opened")

	for {
		select {
		case <-ctx.Done():
			l.Debug().Msg("stream closed by client")
			return
		case <-sub.Done():
			drain(w, rc, sub)
			l.Debug().Msg("stream closed by hub")
			return
		case f := <-sub.Frames():
			if err := writeFrame(w, rc, f); err != nil {
				l.Debug().Err(err).Msg("stream write failed")
				return
			}
		}
	}
}

// drain flushes whatever was queued before the subscriber was closed, so a
// final ended event is not lost to select ordering.
func drain(w io.Writer, rc *http.ResponseController, sub *hub.Subscriber) {
	for {
		select {
		case f := <-sub.Frames():
			if err := writeFrame(w, rc, f); err != nil {
				return
			}
		default:
			return
		}
	}
}

func writeFrame(w io.Writer, rc *http.ResponseController, f hub.Frame) error {
	if err := encode(w, f); err != nil {
		return err
	}
	return rc.Flush()
}

// encode writes f in text/event-stream framing. Event payloads are compact
// JSON and never contain newlines.
func encode(w io.Writer, f hub.Frame) error {
	var err error
	if f.IsComment() {
		_, err = fmt.Fprintf(w, ": %s\n\n", f.Comment)
		return err
	}
	if f.Event != "" {
		if _, err = fmt.Fprintf(w, "event: %s\n", f.Event); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", f.Data)
	return err
}
