package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"watchparty/internal/cache"
	pkglog "watchparty/internal/log"
	"watchparty/internal/model"
	"watchparty/internal/repository"
)

// RoomService owns the room lifecycle: creation, roster changes and the
// host-driven waiting -> countdown -> playing -> ended progression. Every
// check happens before the store is touched, and an event is published only
// after the store accepted the change.
type RoomService struct {
	rooms       repository.RoomRepo
	chat        repository.ChatRepo
	reactions   repository.ReactionRepo
	playback    cache.PlaybackLog
	broadcaster Broadcaster
	now         func() time.Time
}

// NewRoomService creates a new room service
func NewRoomService(store *repository.Store, playback cache.PlaybackLog) *RoomService {
	return &RoomService{
		rooms:     store.Rooms,
		chat:      store.Chat,
		reactions: store.Reactions,
		playback:  playback,
		now:       time.Now,
	}
}

// SetBroadcaster sets the event sink (hub).
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateRoom creates a waiting room hosted by host. Nothing is published:
// nobody can be subscribed to a room that did not exist.
func (s *RoomService) CreateRoom(ctx context.Context, host model.Identity, req model.CreateRoomRequest) (*model.Room, error) {
	req.MovieTitle = strings.TrimSpace(req.MovieTitle)
	req.MovieURL = strings.TrimSpace(req.MovieURL)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if u, err := url.Parse(req.MovieURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, invalid("movieUrl must be an http or https URL")
	}

	room := &model.Room{
		HostID:       host.UserID,
		HostName:     host.Username,
		MovieTitle:   req.MovieTitle,
		MovieURL:     req.MovieURL,
		Participants: []model.Participant{},
		IsActive:     true,
		RoomState:    model.RoomWaiting,
		CreatedAt:    s.now(),
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, storageErr("create room", err)
	}

	l := pkglog.Ctx(ctx)
	l.Info().
		Str(pkglog.FieldRoomID, room.ID).
		Str(pkglog.FieldUserID, host.UserID).
		Msg("room created")
	return room, nil
}

// GetRoom retrieves a room by id
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, storageErr("get room", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	return room, nil
}

// ListActive returns active rooms, newest first.
func (s *RoomService) ListActive(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, storageErr("list rooms", err)
	}
	return rooms, nil
}

// Snapshot reads the stored room and builds the event a new subscriber sees
// first.
func (s *RoomService) Snapshot(ctx context.Context, roomID string) (model.SnapshotEvent, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return model.SnapshotEvent{}, err
	}
	return model.NewSnapshot(room), nil
}

// Join adds who to the roster. Joining twice keeps one entry but still
// announces the roster.
func (s *RoomService) Join(ctx context.Context, roomID string, who model.Identity) (*model.Room, error) {
	now := s.now()
	room, err := s.rooms.AddParticipant(ctx, roomID, who.AsParticipant(now))
	if err != nil {
		return nil, storageErr("join room", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	if !room.IsActive {
		return nil, fmt.Errorf("join %s: %w", roomID, ErrRoomInactive)
	}

	s.publish(roomID, model.NewParticipantsChanged(room, now))
	return room, nil
}

// Leave removes who from the roster. Leaving a room one is not in still
// announces the unchanged roster.
func (s *RoomService) Leave(ctx context.Context, roomID string, who model.Identity) (*model.Room, error) {
	now := s.now()
	room, err := s.rooms.RemoveParticipant(ctx, roomID, who.UserID, now)
	if err != nil {
		return nil, storageErr("leave room", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	s.publish(roomID, model.NewParticipantsChanged(room, now))
	return room, nil
}

// UpdateState moves the room forward on behalf of its host. Requesting the
// current state is accepted and republished. "ended" is delegated to End.
func (s *RoomService) UpdateState(ctx context.Context, roomID, callerID, state string) (*model.Room, error) {
	to, err := model.ParseRoomState(state)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if to == model.RoomEnded {
		return s.End(ctx, roomID, callerID)
	}

	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(room, callerID, to); err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.rooms.UpdateState(ctx, roomID, model.TransitionSources(to), to, now)
	if err != nil {
		return nil, storageErr("update room state", err)
	}
	if updated == nil {
		// Another request moved the room between the read and the write.
		current, err := s.GetRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if err := checkTransition(current, callerID, to); err != nil {
			return nil, err
		}
		return nil, invalid("room state changed concurrently")
	}

	l := pkglog.Ctx(ctx)
	l.Info().
		Str(pkglog.FieldRoomID, roomID).
		Str("from", string(room.RoomState)).
		Str("to", string(to)).
		Msg("room state changed")
	s.publish(roomID, model.NewStateChanged(updated, now))
	return updated, nil
}

// End makes the room permanently inactive. It succeeds once; later calls get
// ErrRoomInactive and publish nothing.
func (s *RoomService) End(ctx context.Context, roomID, callerID string) (*model.Room, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsHost(callerID) {
		return nil, fmt.Errorf("end %s: only the host can end the room: %w", roomID, ErrForbidden)
	}
	if !room.IsActive {
		return nil, fmt.Errorf("end %s: %w", roomID, ErrRoomInactive)
	}

	ended, err := s.end(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if ended == nil {
		return nil, fmt.Errorf("end %s: %w", roomID, ErrRoomInactive)
	}
	return ended, nil
}

// Delete removes the room and everything attached to it, then disconnects its
// streams. An active room is ended first so subscribers see why.
func (s *RoomService) Delete(ctx context.Context, roomID, callerID string) error {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.IsHost(callerID) {
		return fmt.Errorf("delete %s: only the host can delete the room: %w", roomID, ErrForbidden)
	}
	if room.IsActive {
		if _, err := s.end(ctx, roomID); err != nil {
			return err
		}
	}

	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return storageErr("delete room", err)
	}
	if err := s.chat.DeleteByRoom(ctx, roomID); err != nil {
		return storageErr("delete chat", err)
	}
	if err := s.reactions.DeleteByRoom(ctx, roomID); err != nil {
		return storageErr("delete reactions", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.CloseRoom(roomID)
	}

	l := pkglog.Ctx(ctx)
	l.Info().Str(pkglog.FieldRoomID, roomID).Msg("room deleted")
	return nil
}

// end persists the terminal state and publishes it. A nil room means another
// request ended it first.
func (s *RoomService) end(ctx context.Context, roomID string) (*model.Room, error) {
	now := s.now()
	ended, err := s.rooms.End(ctx, roomID, now)
	if err != nil {
		return nil, storageErr("end room", err)
	}
	if ended == nil {
		return nil, nil
	}

	l := pkglog.Ctx(ctx)
	if s.playback != nil {
		if err := s.playback.Delete(ctx, roomID); err != nil {
			l.Warn().Err(err).Str(pkglog.FieldRoomID, roomID).Msg("failed to clear playback log")
		}
	}
	l.Info().
		Str(pkglog.FieldRoomID, roomID).
		Int("participants", len(ended.Participants)).
		Msg("room ended")
	s.publish(roomID, model.NewEnded(ended, now))
	return ended, nil
}

func (s *RoomService) publish(roomID string, evt model.Event) {
	if s.broadcaster != nil {
		s.broadcaster.Publish(roomID, evt)
	}
}

// checkTransition applies the host, activity and ordering rules in that order.
func checkTransition(room *model.Room, callerID string, to model.RoomState) error {
	if !room.IsHost(callerID) {
		return fmt.Errorf("room %s: only the host can change state: %w", room.ID, ErrForbidden)
	}
	if !room.IsActive {
		return fmt.Errorf("room %s: %w", room.ID, ErrRoomInactive)
	}
	if !model.CanTransition(room.RoomState, to) {
		return invalid("cannot move room from %s to %s", room.RoomState, to)
	}
	return nil
}
