package repository

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"watchparty/internal/model"
)

func newRoom(t *testing.T, repo RoomRepo, createdAt time.Time) *model.Room {
	t.Helper()
	room := &model.Room{
		HostID:     "host",
		HostName:   "Host",
		MovieTitle: "Test",
		MovieURL:   "http://x/video.mp4",
		IsActive:   true,
		RoomState:  model.RoomWaiting,
		CreatedAt:  createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), room))
	return room
}

func TestMemoryRoomRepo_CreateAndGet(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryRoomRepo()

	room := newRoom(t, repo, time.Now())
	req.NotEmpty(room.ID)
	req.NotNil(room.Participants)

	got, err := repo.GetByID(ctx, room.ID)
	req.NoError(err)
	req.Equal(room.MovieTitle, got.MovieTitle)

	missing, err := repo.GetByID(ctx, "nope")
	req.NoError(err)
	req.Nil(missing)
}

func TestMemoryRoomRepo_ReturnsCopies(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryRoomRepo()
	room := newRoom(t, repo, time.Now())

	got, err := repo.GetByID(ctx, room.ID)
	req.NoError(err)
	got.RoomState = model.RoomPlaying
	got.Participants = append(got.Participants, model.Participant{UserID: "x"})

	again, err := repo.GetByID(ctx, room.ID)
	req.NoError(err)
	req.Equal(model.RoomWaiting, again.RoomState)
	req.Empty(again.Participants)
}

func TestMemoryRoomRepo_ListActiveNewestFirst(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryRoomRepo()
	base := time.Now()

	older := newRoom(t, repo, base)
	newer := newRoom(t, repo, base.Add(time.Minute))
	ended := newRoom(t, repo, base.Add(2*time.Minute))
	_, err := repo.End(ctx, ended.ID, base)
	req.NoError(err)

	rooms, err := repo.ListActive(ctx)
	req.NoError(err)
	req.Len(rooms, 2)
	req.Equal(newer.ID, rooms[0].ID)
	req.Equal(older.ID, rooms[1].ID)
}

func TestMemoryRoomRepo_AddParticipantIsIdempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryRoomRepo()
	room := newRoom(t, repo, time.Now())

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddParticipant(ctx, room.ID, model.Participant{UserID: "u1", Username: "alice", JoinedAt: time.Now()})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}

	got, err := repo.GetByID(ctx, room.ID)
	req.NoError(err)
	req.Len(got.Participants, 1)
}

func TestMemoryRoomRepo_AddParticipantKeepsJoinOrder(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryRoomRepo()
	room := newRoom(t, repo, time.Now())

	for i := 0; i < 3; i++ {
		_, err := repo.AddParticipant(ctx, room.ID, model.Participant{UserID: "u" + strconv.Itoa(i)})
		req.NoError(err)
	}
	got, err := repo.RemoveParticipant(ctx, room.ID, "u1", time.Now())
	req.NoError(err)
	req.Len(got.Participants, 2)
	req.Equal("u0", got.Participants[0].UserID)
	req.Equal("u2", got.Participants[1].UserID)
}

func TestMemoryRoomRepo_AddParticipantInactiveRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryRoomRepo()
	room := newRoom(t, repo, time.Now())
	_, err := repo.End(ctx, room.ID, time.Now())
	req.NoError(err)

	got, err := repo.AddParticipant(ctx, room.ID, model.Participant{UserID: "u1"})
	req.NoError(err)
	req.False(got.IsActive)
	req.Empty(got.Participants)

	missing, err := repo.AddParticipant(ctx, "nope", model.Participant{UserID: "u1"})
	req.NoError(err)
	req.Nil(missing)
}

func TestMemoryRoomRepo_UpdateStateCompareAndSet(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryRoomRepo()
	room := newRoom(t, repo, time.Now())

	got, err := repo.UpdateState(ctx, room.ID, []model.RoomState{model.RoomCountdown}, model.RoomPlaying, time.Now())
	req.NoError(err)
	req.Nil(got)

	got, err = repo.UpdateState(ctx, room.ID, []model.RoomState{model.RoomWaiting}, model.RoomCountdown, time.Now())
	req.NoError(err)
	req.Equal(model.RoomCountdown, got.RoomState)
	req.NotNil(got.UpdatedAt)
}

func TestMemoryRoomRepo_EndOnce(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryRoomRepo()
	room := newRoom(t, repo, time.Now())

	got, err := repo.End(ctx, room.ID, time.Now())
	req.NoError(err)
	req.False(got.IsActive)
	req.Equal(model.RoomEnded, got.RoomState)
	req.NotNil(got.EndedAt)

	again, err := repo.End(ctx, room.ID, time.Now())
	req.NoError(err)
	req.Nil(again)

	st, err := repo.UpdateState(ctx, room.ID, model.TransitionSources(model.RoomWaiting), model.RoomWaiting, time.Now())
	req.NoError(err)
	req.Nil(st)
}

func TestMemoryChatRepo(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryChatRepo()

	for i := 0; i < 3; i++ {
		req.NoError(repo.Create(ctx, &model.ChatMessage{RoomID: "r1", Message: strconv.Itoa(i)}))
	}
	req.NoError(repo.Create(ctx, &model.ChatMessage{RoomID: "r2", Message: "other"}))

	msgs, err := repo.ListByRoom(ctx, "r1", 0)
	req.NoError(err)
	req.Len(msgs, 3)
	req.Equal("0", msgs[0].Message)
	req.NotEmpty(msgs[0].ID)
	req.False(msgs[0].Timestamp.IsZero())

	req.NoError(repo.DeleteByRoom(ctx, "r1"))
	msgs, err = repo.ListByRoom(ctx, "r1", 0)
	req.NoError(err)
	req.Empty(msgs)
}

func TestMemoryReactionRepo_RecentNewestFirst(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryReactionRepo()

	for i := 0; i < 60; i++ {
		req.NoError(repo.Create(ctx, &model.Reaction{RoomID: "r1", Type: strconv.Itoa(i)}))
	}

	recent, err := repo.Recent(ctx, "r1", 50)
	req.NoError(err)
	req.Len(recent, 50)
	req.Equal("59", recent[0].Type)
	req.Equal("10", recent[49].Type)
}

func TestMemoryUserRepo_Unique(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryUserRepo()

	u := &model.User{Username: "alice", Phone: "0912345678"}
	req.NoError(repo.Create(ctx, u))
	req.NotEmpty(u.ID)

	req.ErrorIs(repo.Create(ctx, &model.User{Username: "alice", Phone: "0999999999"}), ErrDuplicate)
	req.ErrorIs(repo.Create(ctx, &model.User{Username: "bob", Phone: "0912345678"}), ErrDuplicate)

	got, err := repo.GetByUsername(ctx, "alice")
	req.NoError(err)
	req.Equal(u.ID, got.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	req.NoError(err)
	req.Equal("alice", byID.Username)

	missing, err := repo.GetByUsername(ctx, "carol")
	req.NoError(err)
	req.Nil(missing)
}
