package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusunify/campus-api/internal/core/domain"
)

const cartCollection = "carts"

// CartRepository implements ports.CartRepository. One document per user; a
// missing document reads as an empty cart.
type CartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{coll: db.Collection(cartCollection)}
}

type cartDoc struct {
	UserID   string   `bson:"user_id"`
	EventIDs []string `bson:"event_ids"`
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	var doc cartDoc
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return &domain.Cart{UserID: userID, EventIDs: []string{}}, nil
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &domain.Cart{UserID: doc.UserID, EventIDs: doc.EventIDs}, nil
}

// AddItem inserts eventID with $addToSet so the duplicate check and the write
// are a single atomic document operation.
func (r *CartRepository) AddItem(ctx context.Context, userID, eventID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$addToSet": bson.M{"event_ids": eventID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	if res.ModifiedCount == 0 && res.UpsertedCount == 0 {
		return domain.ErrCartDuplicate
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, eventID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$pull": bson.M{"event_ids": eventID}},
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"event_ids": []string{}}},
	)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
