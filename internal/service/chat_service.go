package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"watchparty/internal/model"
	"watchparty/internal/repository"
)

// ChatService persists chat lines from room participants and announces them.
type ChatService struct {
	rooms       repository.RoomRepo
	chat        repository.ChatRepo
	broadcaster Broadcaster
	now         func() time.Time
}

func NewChatService(store *repository.Store) *ChatService {
	return &ChatService{
		rooms: store.Rooms,
		chat:  store.Chat,
		now:   time.Now,
	}
}

func (s *ChatService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Post stores a message from who and publishes it with its server id and
// timestamp.
func (s *ChatService) Post(ctx context.Context, roomID string, who model.Identity, text string) (*model.ChatMessage, error) {
	req := model.PostChatRequest{Message: strings.TrimSpace(text)}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	room, err := loadParticipantRoom(ctx, s.rooms, roomID, who.UserID)
	if err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		RoomID:    roomID,
		UserID:    who.UserID,
		Username:  who.Username,
		Message:   req.Message,
		Timestamp: s.now(),
		IsHost:    room.IsHost(who.UserID),
	}
	if err := s.chat.Create(ctx, msg); err != nil {
		return nil, storageErr("save chat message", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(roomID, model.NewChatEvent(*msg, msg.Timestamp))
	}
	return msg, nil
}

// List returns the room's messages, oldest first.
func (s *ChatService) List(ctx context.Context, roomID string) ([]*model.ChatMessage, error) {
	if err := requireRoom(ctx, s.rooms, roomID); err != nil {
		return nil, err
	}
	msgs, err := s.chat.ListByRoom(ctx, roomID, 0)
	if err != nil {
		return nil, storageErr("list chat messages", err)
	}
	return msgs, nil
}

// loadParticipantRoom returns the room if userID is on its roster.
func loadParticipantRoom(ctx context.Context, rooms repository.RoomRepo, roomID, userID string) (*model.Room, error) {
	room, err := rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, storageErr("get room", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	if !room.HasParticipant(userID) {
		return nil, fmt.Errorf("room %s: not a participant: %w", roomID, ErrForbidden)
	}
	return room, nil
}

func requireRoom(ctx context.Context, rooms repository.RoomRepo, roomID string) error {
	room, err := rooms.GetByID(ctx, roomID)
	if err != nil {
		return storageErr("get room", err)
	}
	if room == nil {
		return fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	return nil
}
