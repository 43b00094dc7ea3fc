package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"sparkmatch/internal/model"
)

type BookingRepo interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByEventAndID(ctx context.Context, eventCode, id string) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventCode string) ([]*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id string) error
}

type bookingRepo struct {
	collection *mongo.Collection
}

func NewBookingRepo(db *mongo.Database) BookingRepo {
	return &bookingRepo{
		collection: db.Collection("bookings"),
	}
}

func (r *bookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	_, err := r.collection.InsertOne(ctx, booking)
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) GetByEventAndID(ctx context.Context, eventCode, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "eventCode": eventCode}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) ListByEvent(ctx context.Context, eventCode string) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"eventCode": eventCode})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepo) Update(ctx context.Context, booking *model.Booking) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": booking.ID}, booking)
	return err
}

func (r *bookingRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
