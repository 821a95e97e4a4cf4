package service

import (
	"context"
	"fmt"
	"time"

	"watchparty/internal/cache"
	pkglog "watchparty/internal/log"
	"watchparty/internal/model"
	"watchparty/internal/repository"
)

// PlaybackService relays host playback directives to the room and keeps a
// short log of them for participants who arrive mid-stream.
type PlaybackService struct {
	rooms       repository.RoomRepo
	log         cache.PlaybackLog
	broadcaster Broadcaster
	limit       int
	now         func() time.Time
}

func NewPlaybackService(rooms repository.RoomRepo, log cache.PlaybackLog) *PlaybackService {
	return &PlaybackService{
		rooms: rooms,
		log:   log,
		limit: cache.DefaultPlaybackLimit,
		now:   time.Now,
	}
}

func (s *PlaybackService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Broadcast records and publishes d for the room. Only the host may call it;
// anyone else gets ErrForbidden and nothing is recorded or published.
func (s *PlaybackService) Broadcast(ctx context.Context, roomID, callerID string, d model.PlaybackDirective) error {
	if err := d.Validate(); err != nil {
		return invalid("%v", err)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return storageErr("get room", err)
	}
	if room == nil {
		return fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	if !room.IsHost(callerID) {
		return fmt.Errorf("room %s: only the host can control playback: %w", roomID, ErrForbidden)
	}
	if !room.IsActive {
		return fmt.Errorf("room %s: %w", roomID, ErrRoomInactive)
	}

	now := s.now()
	rec := model.PlaybackRecord{Type: d.Type, VideoTime: d.VideoTime, Timestamp: now}
	if err := s.log.Record(ctx, roomID, rec); err != nil {
		return storageErr("record playback", err)
	}

	l := pkglog.Ctx(ctx)
	l.Debug().
		Str(pkglog.FieldRoomID, roomID).
		Str("action", string(d.Type)).
		Msg("playback directive")
	if s.broadcaster != nil {
		s.broadcaster.Publish(roomID, model.NewPlaybackEvent(d, now))
	}
	return nil
}

// Recent returns directives still inside the catch-up window, newest first.
func (s *PlaybackService) Recent(ctx context.Context, roomID string) ([]model.PlaybackRecord, error) {
	recs, err := s.log.Recent(ctx, roomID, s.limit)
	if err != nil {
		return nil, storageErr("read playback log", err)
	}
	return recs, nil
}
