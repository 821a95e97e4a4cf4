package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"watchparty/internal/model"
)

// DatabaseName is the Mongo database every collection lives in.
const DatabaseName = "middle-gate"

// ErrDuplicate is returned when a unique username or phone already exists.
var ErrDuplicate = errors.New("duplicate key")

// Lookups return (nil, nil) when nothing matches.

type RoomRepo interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	ListActive(ctx context.Context) ([]*model.Room, error)
	// AddParticipant pushes p unless the user is already listed or the room
	// is inactive, and returns the room as stored afterwards.
	AddParticipant(ctx context.Context, id string, p model.Participant) (*model.Room, error)
	RemoveParticipant(ctx context.Context, id, userID string, at time.Time) (*model.Room, error)
	// UpdateState sets roomState only if the room is active and currently in
	// one of from. A nil room means the precondition did not hold.
	UpdateState(ctx context.Context, id string, from []model.RoomState, to model.RoomState, at time.Time) (*model.Room, error)
	// End flips an active room to ended. A nil room means it was not active.
	End(ctx context.Context, id string, at time.Time) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type ChatRepo interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	// ListByRoom returns messages oldest first. limit <= 0 means all.
	ListByRoom(ctx context.Context, roomID string, limit int) ([]*model.ChatMessage, error)
	DeleteByRoom(ctx context.Context, roomID string) error
}

type ReactionRepo interface {
	Create(ctx context.Context, r *model.Reaction) error
	// Recent returns the newest reactions first.
	Recent(ctx context.Context, roomID string, limit int) ([]*model.Reaction, error)
	DeleteByRoom(ctx context.Context, roomID string) error
}

type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// Store bundles one implementation of every repository.
type Store struct {
	Rooms     RoomRepo
	Chat      ChatRepo
	Reactions ReactionRepo
	Users     UserRepo
}

func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Rooms:     NewRoomRepo(db),
		Chat:      NewChatRepo(db),
		Reactions: NewReactionRepo(db),
		Users:     NewUserRepo(db),
	}
}

// EnsureIndexes creates the indexes the queries above rely on. It is safe to
// run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"rooms": {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"chatMessages": {
			{Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		"reactions": {
			{Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
