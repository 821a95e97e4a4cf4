package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"watchparty/internal/model"
)

// NewMemoryStore returns a Store kept entirely in process memory. It mirrors
// the Mongo repositories' semantics and is meant for single-instance runs and
// tests.
func NewMemoryStore() *Store {
	return &Store{
		Rooms:     NewMemoryRoomRepo(),
		Chat:      NewMemoryChatRepo(),
		Reactions: NewMemoryReactionRepo(),
		Users:     NewMemoryUserRepo(),
	}
}

// MemoryRoomRepo is an in-memory RoomRepo. Every method copies in and out.
type MemoryRoomRepo struct {
	mu    sync.RWMutex
	rooms map[string]*model.Room
}

func NewMemoryRoomRepo() *MemoryRoomRepo {
	return &MemoryRoomRepo{rooms: make(map[string]*model.Room)}
}

func (s *MemoryRoomRepo) Create(ctx context.Context, room *model.Room) error {
	if room.ID == "" {
		room.ID = primitive.NewObjectID().Hex()
	}
	if room.Participants == nil {
		room.Participants = []model.Participant{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room.Clone()
	return nil
}

func (s *MemoryRoomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	return room.Clone(), nil
}

func (s *MemoryRoomRepo) ListActive(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		if room.IsActive {
			result = append(result, room.Clone())
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryRoomRepo) AddParticipant(ctx context.Context, id string, p model.Participant) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	if room.IsActive && !room.HasParticipant(p.UserID) {
		room.Participants = append(room.Participants, p)
		room.UpdatedAt = timePtr(p.JoinedAt)
	}
	return room.Clone(), nil
}

func (s *MemoryRoomRepo) RemoveParticipant(ctx context.Context, id, userID string, at time.Time) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	kept := room.Participants[:0]
	for _, p := range room.Participants {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	room.Participants = kept
	room.UpdatedAt = timePtr(at)
	return room.Clone(), nil
}

func (s *MemoryRoomRepo) UpdateState(ctx context.Context, id string, from []model.RoomState, to model.RoomState, at time.Time) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok || !room.IsActive || !containsState(from, room.RoomState) {
		return nil, nil
	}
	room.RoomState = to
	room.UpdatedAt = timePtr(at)
	return room.Clone(), nil
}

func (s *MemoryRoomRepo) End(ctx context.Context, id string, at time.Time) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok || !room.IsActive {
		return nil, nil
	}
	room.RoomState = model.RoomEnded
	room.IsActive = false
	room.EndedAt = timePtr(at)
	room.UpdatedAt = timePtr(at)
	return room.Clone(), nil
}

func (s *MemoryRoomRepo) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

// MemoryChatRepo keeps messages per room in insertion order.
type MemoryChatRepo struct {
	mu       sync.RWMutex
	messages map[string][]model.ChatMessage
}

func NewMemoryChatRepo() *MemoryChatRepo {
	return &MemoryChatRepo{messages: make(map[string][]model.ChatMessage)}
}

func (s *MemoryChatRepo) Create(ctx context.Context, msg *model.ChatMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	if msg.ID == "" {
		msg.ID = primitive.NewObjectID().Hex()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.RoomID] = append(s.messages[msg.RoomID], *msg)
	return nil
}

func (s *MemoryChatRepo) ListByRoom(ctx context.Context, roomID string, limit int) ([]*model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.messages[roomID]
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}
	result := make([]*model.ChatMessage, 0, len(stored))
	for i := range stored {
		msg := stored[i]
		result = append(result, &msg)
	}
	return result, nil
}

func (s *MemoryChatRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, roomID)
	return nil
}

// MemoryReactionRepo keeps reactions per room in insertion order.
type MemoryReactionRepo struct {
	mu        sync.RWMutex
	reactions map[string][]model.Reaction
}

func NewMemoryReactionRepo() *MemoryReactionRepo {
	return &MemoryReactionRepo{reactions: make(map[string][]model.Reaction)}
}

func (s *MemoryReactionRepo) Create(ctx context.Context, r *model.Reaction) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	if r.ID == "" {
		r.ID = primitive.NewObjectID().Hex()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reactions[r.RoomID] = append(s.reactions[r.RoomID], *r)
	return nil
}

func (s *MemoryReactionRepo) Recent(ctx context.Context, roomID string, limit int) ([]*model.Reaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.reactions[roomID]
	result := make([]*model.Reaction, 0, min(len(stored), limit))
	for i := len(stored) - 1; i >= 0 && len(result) < limit; i-- {
		r := stored[i]
		result = append(result, &r)
	}
	return result, nil
}

func (s *MemoryReactionRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reactions, roomID)
	return nil
}

// MemoryUserRepo enforces the same unique username and phone as the Mongo
// indexes.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]model.User)}
}

func (s *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Phone == user.Phone {
			return ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func containsState(states []model.RoomState, s model.RoomState) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

func timePtr(t time.Time) *time.Time {
	return &t
}
