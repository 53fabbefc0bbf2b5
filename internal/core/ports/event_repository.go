package ports

import (
	"context"
	"time"

	"github.com/campusunify/campus-api/internal/core/domain"
)

// ListEventsFilter carries query parameters for listing events.
// ClubID is enforced by the service layer for club-role callers.
type ListEventsFilter struct {
	ClubID string // empty = no owner filter; non-empty = scoped to one club
	Sort   string // "date" (default) or "-date"
	Page   int    // 1-based
	Limit  int    // capped by the service
}

// EventRepository defines persistence for events and their day sub-entities.
// Days travel with the parent document; Update replaces the full document.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	// FindLatest returns up to limit events dated after the given instant,
	// soonest first.
	FindLatest(ctx context.Context, after time.Time, limit int) ([]*domain.Event, error)
	List(ctx context.Context, filter ListEventsFilter) ([]*domain.Event, int64, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// BookingRepository manages the one-per-event registration roster.
type BookingRepository interface {
	Create(ctx context.Context, eventID string) error
	FindByEvent(ctx context.Context, eventID string) (*domain.Booking, error)
	// RegisterUser appends userID to the roster, once.
	RegisterUser(ctx context.Context, eventID, userID string) error
	Delete(ctx context.Context, eventID string) error
}
