package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"watchparty/internal/model"
)

type roomRepo struct {
	collection *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) RoomRepo {
	return &roomRepo{
		collection: db.Collection("rooms"),
	}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	if room.ID == "" {
		room.ID = primitive.NewObjectID().Hex()
	}
	// $push fails on a null array
	if room.Participants == nil {
		room.Participants = []model.Participant{}
	}
	_, err := r.collection.InsertOne(ctx, room)
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) ListActive(ctx context.Context) ([]*model.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rooms := []*model.Room{}
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepo) AddParticipant(ctx context.Context, id string, p model.Participant) (*model.Room, error) {
	filter := bson.M{
		"_id":                 id,
		"isActive":            true,
		"participants.userId": bson.M{"$ne": p.UserID},
	}
	update := bson.M{
		"$push": bson.M{"participants": p},
		"$set":  bson.M{"updatedAt": p.JoinedAt},
	}
	room, err := r.findOneAndUpdate(ctx, filter, update)
	if err != nil || room != nil {
		return room, err
	}
	// Already a participant, inactive, or missing: report what is stored.
	return r.GetByID(ctx, id)
}

func (r *roomRepo) RemoveParticipant(ctx context.Context, id, userID string, at time.Time) (*model.Room, error) {
	update := bson.M{
		"$pull": bson.M{"participants": bson.M{"userId": userID}},
		"$set":  bson.M{"updatedAt": at},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (r *roomRepo) UpdateState(ctx context.Context, id string, from []model.RoomState, to model.RoomState, at time.Time) (*model.Room, error) {
	filter := bson.M{
		"_id":       id,
		"isActive":  true,
		"roomState": bson.M{"$in": from},
	}
	update := bson.M{"$set": bson.M{"roomState": to, "updatedAt": at}}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *roomRepo) End(ctx context.Context, id string, at time.Time) (*model.Room, error) {
	update := bson.M{"$set": bson.M{
		"roomState": model.RoomEnded,
		"isActive":  false,
		"endedAt":   at,
		"updatedAt": at,
	}}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "isActive": true}, update)
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *roomRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*model.Room, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var room model.Room
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}
