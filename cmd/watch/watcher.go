package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"watchparty/internal/follower"
	pkglog "watchparty/internal/log"
	"watchparty/internal/model"
)

// watcher renders stream events as text lines and keeps the local view of
// playback and reactions.
type watcher struct {
	out       io.Writer
	player    *follower.Player
	reactions *follower.ReactionWindow
	now       func() time.Time
	last      time.Time
}

func newWatcher(out io.Writer) *watcher {
	return &watcher{
		out:       out,
		player:    follower.NewPlayer(),
		reactions: follower.NewReactionWindow(0),
		now:       time.Now,
	}
}

// follow consumes r until the stream ends. A clean end after an ended event
// is not an error.
func (w *watcher) follow(r io.Reader) error {
	dec := follower.NewDecoder(r)
	ended := false
	for {
		msg, err := dec.Next()
		if errors.Is(err, io.EOF) {
			if !ended {
				return errors.New("stream closed before the room ended")
			}
			return nil
		}
		if err != nil {
			return err
		}
		if msg.IsComment() {
			l := pkglog.L()
			l.Debug().Str("comment", msg.Comment).Msg("keep-alive")
			continue
		}
		if err := w.handle(msg); err != nil {
			return err
		}
		if msg.Event == string(model.EventEnded) {
			ended = true
		}
	}
}

func (w *watcher) handle(msg follower.Message) error {
	now := w.now()
	if !w.last.IsZero() {
		w.player.Advance(now.Sub(w.last).Seconds())
	}
	w.last = now

	switch model.EventKind(msg.Event) {
	case model.EventSnapshot:
		var evt model.SnapshotEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			return decodeErr(msg, err)
		}
		w.printf("room is %s, %d watching%s", evt.RoomState, len(evt.Participants), inactive(evt.IsActive))
	case model.EventStateChanged:
		var evt model.StateChangedEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			return decodeErr(msg, err)
		}
		w.printf("room is now %s", evt.RoomState)
	case model.EventParticipantsChanged:
		var evt model.ParticipantsChangedEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			return decodeErr(msg, err)
		}
		names := make([]string, 0, len(evt.Participants))
		for _, p := range evt.Participants {
			names = append(names, p.Username)
		}
		w.printf("watching: %s", strings.Join(names, ", "))
	case model.EventChat:
		var evt model.ChatEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			return decodeErr(msg, err)
		}
		name := evt.Message.Username
		if evt.Message.IsHost {
			name += " (host)"
		}
		w.printf("%s: %s", name, evt.Message.Message)
	case model.EventReaction:
		var evt model.ReactionEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			return decodeErr(msg, err)
		}
		if w.reactions.Add(evt.Reaction, now) {
			w.printf("%s reacted %s  [%s]", evt.Reaction.Username, evt.Reaction.Type, formatCounts(w.reactions.Counts(now)))
		}
	case model.EventPlayback:
		var evt model.PlaybackEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			return decodeErr(msg, err)
		}
		if w.player.Apply(evt.Event) {
			w.printf("playback: %s at %.1fs", playbackState(w.player.Playing()), w.player.Position())
		}
	case model.EventEnded:
		w.printf("the host ended the party")
	default:
		l := pkglog.L()
		l.Debug().Str(pkglog.FieldEvent, msg.Event).Msg("ignoring unknown event")
	}
	return nil
}

func (w *watcher) printf(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

func decodeErr(msg follower.Message, err error) error {
	return fmt.Errorf("decode %s event: %w", msg.Event, err)
}

func inactive(active bool) string {
	if active {
		return ""
	}
	return " (ended)"
}

func playbackState(playing bool) string {
	if playing {
		return "playing"
	}
	return "paused"
}

func formatCounts(counts map[string]int) string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s x%d", t, counts[t]))
	}
	return strings.Join(parts, " ")
}
