package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusunify/campus-api/internal/core/domain"
)

const bookingCollection = "bookings"

// BookingRepository implements ports.BookingRepository. One roster document
// per event.
type BookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{coll: db.Collection(bookingCollection)}
}

type bookingDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	EventID         string             `bson:"event_id"`
	RegisteredUsers []string           `bson:"registered_users"`
}

func (r *BookingRepository) Create(ctx context.Context, eventID string) error {
	_, err := r.coll.InsertOne(ctx, bookingDoc{EventID: eventID, RegisteredUsers: []string{}})
	if err != nil {
		return fmt.Errorf("insert booking roster: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByEvent(ctx context.Context, eventID string) (*domain.Booking, error) {
	var doc bookingDoc
	if err := r.coll.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find booking roster: %w", err)
	}
	return &domain.Booking{ID: doc.ID.Hex(), EventID: doc.EventID, RegisteredUsers: doc.RegisteredUsers}, nil
}

// RegisterUser appends userID to the roster; $addToSet keeps registration
// idempotent.
func (r *BookingRepository) RegisterUser(ctx context.Context, eventID, userID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"event_id": eventID},
		bson.M{"$addToSet": bson.M{"registered_users": userID}},
	)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, eventID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return fmt.Errorf("delete booking roster: %w", err)
	}
	return nil
}
