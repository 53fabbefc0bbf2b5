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
	"github.com/campusunify/campus-api/internal/core/ports"
)

const eventCollection = "events"

// EventRepository implements ports.EventRepository. Event days live inside
// the event document; club_id is stored as the plain hex id of the owner.
type EventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{coll: db.Collection(eventCollection)}
}

type eventDayDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Date        time.Time `bson:"date"`
	Venue       string    `bson:"venue,omitempty"`
}

type eventDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Date        time.Time          `bson:"date"`
	Venue       string             `bson:"venue"`
	CoverImage  string             `bson:"cover_image,omitempty"`
	Charge      int64              `bson:"charge"`
	ClubID      string             `bson:"club_id"`
	Days        []eventDayDoc      `bson:"days"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func toEventDoc(e *domain.Event) eventDoc {
	days := make([]eventDayDoc, 0, len(e.Days))
	for _, d := range e.Days {
		days = append(days, eventDayDoc(d))
	}
	return eventDoc{
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date,
		Venue:       e.Venue,
		CoverImage:  e.CoverImage,
		Charge:      e.Charge,
		ClubID:      e.ClubID,
		Days:        days,
		CreatedAt:   e.CreatedAt,
	}
}

func (d eventDoc) toDomain() *domain.Event {
	days := make([]domain.EventDay, 0, len(d.Days))
	for _, day := range d.Days {
		days = append(days, domain.EventDay(day))
	}
	return &domain.Event{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Date:        d.Date,
		Venue:       d.Venue,
		CoverImage:  d.CoverImage,
		Charge:      d.Charge,
		ClubID:      d.ClubID,
		Days:        days,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	res, err := r.coll.InsertOne(ctx, toEventDoc(event))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	created := *event
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	var doc eventDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) FindLatest(ctx context.Context, after time.Time, limit int) ([]*domain.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"date": bson.M{"$gt": after}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find latest events: %w", err)
	}
	defer cur.Close(ctx)

	return decodeEvents(ctx, cur)
}

func (r *EventRepository) List(ctx context.Context, filter ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	query := bson.M{}
	if filter.ClubID != "" {
		query["club_id"] = filter.ClubID
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	sort := bson.D{{Key: "date", Value: 1}}
	if filter.Sort == "-date" {
		sort = bson.D{{Key: "date", Value: -1}}
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	events, err := decodeEvents(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	oid, err := primitive.ObjectIDFromHex(event.ID)
	if err != nil {
		return domain.ErrEventNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toEventDoc(event))
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func decodeEvents(ctx context.Context, cur *mongo.Cursor) ([]*domain.Event, error) {
	var events []*domain.Event
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
