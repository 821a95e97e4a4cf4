package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"watchparty/internal/model"
)

type reactionRepo struct {
	collection *mongo.Collection
}

func NewReactionRepo(db *mongo.Database) ReactionRepo {
	return &reactionRepo{
		collection: db.Collection("reactions"),
	}
}

func (r *reactionRepo) Create(ctx context.Context, reaction *model.Reaction) error {
	if reaction.Timestamp.IsZero() {
		reaction.Timestamp = time.Now()
	}
	if reaction.ID == "" {
		reaction.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, reaction)
	return err
}

func (r *reactionRepo) Recent(ctx context.Context, roomID string, limit int) ([]*model.Reaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"roomId": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reactions := []*model.Reaction{}
	if err = cursor.All(ctx, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *reactionRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"roomId": roomID})
	return err
}
