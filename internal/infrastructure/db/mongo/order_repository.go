package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusunify/campus-api/internal/core/domain"
)

const orderCollection = "orders"

// OrderRepository implements ports.OrderRepository.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(orderCollection)}
}

type orderDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	InternalOrderID string             `bson:"internal_order_id"`
	UserID          string             `bson:"user_id"`
	EventIDs        []string           `bson:"event_ids"`
	TotalAmount     int64              `bson:"total_amount"`
	GatewayOrderID  string             `bson:"gateway_order_id"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d orderDoc) toDomain() *domain.Order {
	return &domain.Order{
		ID:              d.ID.Hex(),
		InternalOrderID: d.InternalOrderID,
		UserID:          d.UserID,
		EventIDs:        d.EventIDs,
		TotalAmount:     d.TotalAmount,
		GatewayOrderID:  d.GatewayOrderID,
		Status:          domain.OrderStatus(d.Status),
		CreatedAt:       d.CreatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	doc := orderDoc{
		InternalOrderID: order.InternalOrderID,
		UserID:          order.UserID,
		EventIDs:        order.EventIDs,
		TotalAmount:     order.TotalAmount,
		GatewayOrderID:  order.GatewayOrderID,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *OrderRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"gateway_order_id": gatewayOrderID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []*domain.Order
	for cur.Next(ctx) {
		var doc orderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
