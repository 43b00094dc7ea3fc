package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sparkmatch/internal/model"
)

type MatchRepo interface {
	InsertMany(ctx context.Context, matches []*model.MatchRecord) error
	ListByEvent(ctx context.Context, eventCode string) ([]*model.MatchRecord, error)
	ListByUser(ctx context.Context, eventCode, userID string) ([]*model.MatchRecord, error)
}

type matchRepo struct {
	collection *mongo.Collection
}

func NewMatchRepo(db *mongo.Database) MatchRepo {
	return &matchRepo{
		collection: db.Collection("matches"),
	}
}

func (r *matchRepo) InsertMany(ctx context.Context, matches []*model.MatchRecord) error {
	if len(matches) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(matches))
	for _, m := range matches {
		if m.ID == "" {
			m.ID = primitive.NewObjectID().Hex()
		}
		docs = append(docs, m)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *matchRepo) ListByEvent(ctx context.Context, eventCode string) ([]*model.MatchRecord, error) {
	return r.list(ctx, bson.M{"eventCode": eventCode})
}

func (r *matchRepo) ListByUser(ctx context.Context, eventCode, userID string) ([]*model.MatchRecord, error) {
	return r.list(ctx, bson.M{
		"eventCode": eventCode,
		"$or":       []bson.M{{"user1Id": userID}, {"user2Id": userID}},
	})
}

func (r *matchRepo) list(ctx context.Context, filter bson.M) ([]*model.MatchRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "round", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []*model.MatchRecord
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
