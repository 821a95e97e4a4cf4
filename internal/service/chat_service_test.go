package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"watchparty/internal/model"
)

func TestChatService_Post(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t, host, alice)

	msg, err := f.chat.Post(ctx, room.ID, alice, "  hello  ")
	req.NoError(err)
	req.NotEmpty(msg.ID)
	req.Equal("hello", msg.Message)
	req.False(msg.IsHost)
	req.False(msg.Timestamp.IsZero())

	last := f.events.last()
	req.Equal(room.ID, last.roomID)
	evt := last.evt.(model.ChatEvent)
	req.Equal(msg.ID, evt.Message.ID)
	req.Equal(msg.Timestamp.UnixMilli(), evt.Ts)

	fromHost, err := f.chat.Post(ctx, room.ID, host, "welcome")
	req.NoError(err)
	req.True(fromHost.IsHost)

	msgs, err := f.chat.List(ctx, room.ID)
	req.NoError(err)
	req.Len(msgs, 2)
	req.Equal("hello", msgs[0].Message)
	req.Equal("welcome", msgs[1].Message)
}

func TestChatService_PostRequiresParticipant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t, alice)

	_, err := f.chat.Post(ctx, room.ID, bob, "let me in")
	req.ErrorIs(err, ErrForbidden)
	req.Empty(f.events.kinds())

	msgs, err := f.chat.List(ctx, room.ID)
	req.NoError(err)
	req.Empty(msgs)
}

func TestChatService_PostValidation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t, alice)

	_, err := f.chat.Post(ctx, room.ID, alice, "   ")
	req.ErrorIs(err, ErrInvalidState)
	_, err = f.chat.Post(ctx, room.ID, alice, strings.Repeat("a", 501))
	req.ErrorIs(err, ErrInvalidState)
	_, err = f.chat.Post(ctx, room.ID, alice, strings.Repeat("é", 500))
	req.NoError(err)

	_, err = f.chat.Post(ctx, "missing", alice, "hi")
	req.ErrorIs(err, ErrNotFound)
	_, err = f.chat.List(ctx, "missing")
	req.ErrorIs(err, ErrNotFound)
}

func TestReactionService_PostAndList(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t, alice, bob)

	r, err := f.reaction.Post(ctx, room.ID, alice, "🔥")
	req.NoError(err)
	req.Equal("🔥", r.Type)
	evt := f.events.last().evt.(model.ReactionEvent)
	req.Equal(r.ID, evt.Reaction.ID)

	_, err = f.reaction.Post(ctx, room.ID, bob, "🔥")
	req.NoError(err)
	_, err = f.reaction.Post(ctx, room.ID, bob, "😂")
	req.NoError(err)

	grouped, err := f.reaction.List(ctx, room.ID)
	req.NoError(err)
	req.Len(grouped, 2)
	req.Len(grouped["🔥"], 2)
	req.Equal(bob.Username, grouped["🔥"][0].Username)
	req.Len(grouped["😂"], 1)
}

func TestReactionService_ListCapsAtRecent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t, alice)

	for i := 0; i < RecentReactionLimit+10; i++ {
		_, err := f.reaction.Post(ctx, room.ID, alice, "👍")
		req.NoError(err)
	}
	grouped, err := f.reaction.List(ctx, room.ID)
	req.NoError(err)
	req.Len(grouped["👍"], RecentReactionLimit)
}

func TestReactionService_Rejections(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture()
	room := f.newRoom(t, alice)

	_, err := f.reaction.Post(ctx, room.ID, bob, "👍")
	req.ErrorIs(err, ErrForbidden)
	_, err = f.reaction.Post(ctx, room.ID, alice, "")
	req.ErrorIs(err, ErrInvalidState)
	_, err = f.reaction.Post(ctx, room.ID, alice, strings.Repeat("x", 33))
	req.ErrorIs(err, ErrInvalidState)
	_, err = f.reaction.Post(ctx, "missing", alice, "👍")
	req.ErrorIs(err, ErrNotFound)
	req.Empty(f.events.kinds())
}
