package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"watchparty/internal/model"
)

func seekTo(t float64) model.PlaybackDirective {
	return model.PlaybackDirective{Type: model.PlaybackSeek, VideoTime: &t}
}

func TestPlaybackService_HostBroadcast(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t, alice)

	req.NoError(f.player.Broadcast(ctx, room.ID, host.UserID, model.PlaybackDirective{Type: model.PlaybackPlay}))
	req.NoError(f.player.Broadcast(ctx, room.ID, host.UserID, seekTo(42)))

	last := f.events.last()
	req.Equal(room.ID, last.roomID)
	evt := last.evt.(model.PlaybackEvent)
	req.Equal(model.PlaybackSeek, evt.Event.Type)
	req.Equal(42.0, *evt.Event.VideoTime)

	recent, err := f.player.Recent(ctx, room.ID)
	req.NoError(err)
	req.Len(recent, 2)
	req.Equal(model.PlaybackSeek, recent[0].Type)
	req.Equal(model.PlaybackPlay, recent[1].Type)
}

func TestPlaybackService_NonHostForbidden(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t, alice)

	err := f.player.Broadcast(ctx, room.ID, alice.UserID, model.PlaybackDirective{Type: model.PlaybackPause})
	req.ErrorIs(err, ErrForbidden)
	req.Empty(f.events.kinds())

	recent, err := f.player.Recent(ctx, room.ID)
	req.NoError(err)
	req.Empty(recent)
}

func TestPlaybackService_Validation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t)

	err := f.player.Broadcast(ctx, room.ID, host.UserID, model.PlaybackDirective{Type: model.PlaybackSeek})
	req.ErrorIs(err, ErrInvalidState)
	err = f.player.Broadcast(ctx, room.ID, host.UserID, seekTo(-3))
	req.ErrorIs(err, ErrInvalidState)
	err = f.player.Broadcast(ctx, room.ID, host.UserID, model.PlaybackDirective{Type: "stop"})
	req.ErrorIs(err, ErrInvalidState)
	err = f.player.Broadcast(ctx, "missing", host.UserID, model.PlaybackDirective{Type: model.PlaybackPlay})
	req.ErrorIs(err, ErrNotFound)
	req.Empty(f.events.kinds())
}

func TestPlaybackService_EndedRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t)
	req.NoError(f.player.Broadcast(ctx, room.ID, host.UserID, model.PlaybackDirective{Type: model.PlaybackPlay}))
	_, err := f.rooms.End(ctx, room.ID, host.UserID)
	req.NoError(err)
	f.events.reset()

	err = f.player.Broadcast(ctx, room.ID, host.UserID, model.PlaybackDirective{Type: model.PlaybackPause})
	req.ErrorIs(err, ErrRoomInactive)
	req.Empty(f.events.kinds())

	recent, err := f.player.Recent(ctx, room.ID)
	req.NoError(err)
	req.Empty(recent)
}
