package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"watchparty/internal/cache"
	"watchparty/internal/model"
	"watchparty/internal/repository"
)

var (
	host  = model.Identity{UserID: "u-host", Username: "host"}
	alice = model.Identity{UserID: "u-alice", Username: "alice"}
	bob   = model.Identity{UserID: "u-bob", Username: "bob"}
)

type published struct {
	roomID string
	evt    model.Event
}

// recorder is a Broadcaster that keeps everything it is given.
type recorder struct {
	mu     sync.Mutex
	events []published
	closed []string
}

func (r *recorder) Publish(roomID string, evt model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{roomID: roomID, evt: evt})
}

func (r *recorder) CloseRoom(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, roomID)
}

func (r *recorder) kinds() []model.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.EventKind, 0, len(r.events))
	for _, p := range r.events {
		out = append(out, p.evt.Kind())
	}
	return out
}

func (r *recorder) last() published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type fixture struct {
	store    *repository.Store
	playback *cache.MemoryPlaybackLog
	events   *recorder
	rooms    *RoomService
	chat     *ChatService
	reaction *ReactionService
	player   *PlaybackService
}

func newFixture() *fixture {
	f := &fixture{
		store:    repository.NewMemoryStore(),
		playback: cache.NewMemoryPlaybackLog(0),
		events:   &recorder{},
	}
	f.rooms = NewRoomService(f.store, f.playback)
	f.chat = NewChatService(f.store)
	f.reaction = NewReactionService(f.store)
	f.player = NewPlaybackService(f.store.Rooms, f.playback)
	f.rooms.SetBroadcaster(f.events)
	f.chat.SetBroadcaster(f.events)
	f.reaction.SetBroadcaster(f.events)
	f.player.SetBroadcaster(f.events)
	return f
}

// newRoom creates a room hosted by host and joins the given users, then
// forgets the join events.
func (f *fixture) newRoom(t *testing.T, joiners ...model.Identity) *model.Room {
	t.Helper()
	ctx := context.Background()
	room, err := f.rooms.CreateRoom(ctx, host, model.CreateRoomRequest{MovieTitle: "Test", MovieURL: "http://x/video.mp4"})
	require.NoError(t, err)
	for _, who := range joiners {
		_, err := f.rooms.Join(ctx, room.ID, who)
		require.NoError(t, err)
	}
	f.events.reset()
	return room
}
