package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"sparkmatch/internal/model"
)

type EventRepo interface {
	Create(ctx context.Context, event *model.Event) error
	GetByCode(ctx context.Context, code string) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, code string) error
}

type eventRepo struct {
	collection *mongo.Collection
}

func NewEventRepo(db *mongo.Database) EventRepo {
	return &eventRepo{
		collection: db.Collection("events"),
	}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *eventRepo) GetByCode(ctx context.Context, code string) (*model.Event, error) {
	var event model.Event
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // not found is not an error
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"code": event.Code}, event)
	return err
}

func (r *eventRepo) Delete(ctx context.Context, code string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"code": code})
	return err
}
