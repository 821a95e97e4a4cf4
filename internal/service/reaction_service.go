package service

import (
	"context"
	"strings"
	"time"

	"watchparty/internal/model"
	"watchparty/internal/repository"
)

// RecentReactionLimit caps how many reactions List looks back over.
const RecentReactionLimit = 50

type ReactionService struct {
	rooms       repository.RoomRepo
	reactions   repository.ReactionRepo
	broadcaster Broadcaster
	now         func() time.Time
}

func NewReactionService(store *repository.Store) *ReactionService {
	return &ReactionService{
		rooms:     store.Rooms,
		reactions: store.Reactions,
		now:       time.Now,
	}
}

func (s *ReactionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Post stores a reaction from who and publishes it. Consumers age reactions
// out by their timestamp; nothing here expires them.
func (s *ReactionService) Post(ctx context.Context, roomID string, who model.Identity, reactionType string) (*model.Reaction, error) {
	req := model.PostReactionRequest{Type: strings.TrimSpace(reactionType)}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := loadParticipantRoom(ctx, s.rooms, roomID, who.UserID); err != nil {
		return nil, err
	}

	reaction := &model.Reaction{
		RoomID:    roomID,
		UserID:    who.UserID,
		Username:  who.Username,
		Type:      req.Type,
		Timestamp: s.now(),
	}
	if err := s.reactions.Create(ctx, reaction); err != nil {
		return nil, storageErr("save reaction", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(roomID, model.NewReactionEvent(*reaction, reaction.Timestamp))
	}
	return reaction, nil
}

// List groups the most recent reactions by type, newest first within a group.
func (s *ReactionService) List(ctx context.Context, roomID string) (map[string][]*model.Reaction, error) {
	if err := requireRoom(ctx, s.rooms, roomID); err != nil {
		return nil, err
	}
	recent, err := s.reactions.Recent(ctx, roomID, RecentReactionLimit)
	if err != nil {
		return nil, storageErr("list reactions", err)
	}

	grouped := make(map[string][]*model.Reaction)
	for _, r := range recent {
		grouped[r.Type] = append(grouped[r.Type], r)
	}
	return grouped, nil
}
