package ports

import (
	"context"
	"time"

	"github.com/campusunify/campus-api/internal/core/domain"
)

// EventInput carries the mutable fields of an event. Days are managed through
// the dedicated day operations, never through event update.
type EventInput struct {
	Name        string
	Description string
	Date        time.Time
	Venue       string
	CoverImage  string
	Charge      int64
}

// EventDayInput carries the mutable fields of an event day.
type EventDayInput struct {
	Name        string
	Description string
	Date        time.Time
	Venue       string
}

// EventService implements event and event-day CRUD with ownership checks.
// Mutations require the acting user to be the owning club; a club-role caller
// may also only read its own events.
type EventService interface {
	Latest(ctx context.Context) ([]*domain.Event, error)
	List(ctx context.Context, actor *domain.User, filter ListEventsFilter) ([]*domain.Event, int64, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Event, error)
	Create(ctx context.Context, actor *domain.User, in EventInput) (*domain.Event, error)
	Update(ctx context.Context, actor *domain.User, id string, in EventInput) (*domain.Event, error)
	Delete(ctx context.Context, actor *domain.User, id string) error

	ListDays(ctx context.Context, eventID string) ([]domain.EventDay, error)
	GetDay(ctx context.Context, eventID, dayID string) (*domain.EventDay, error)
	CreateDay(ctx context.Context, actor *domain.User, eventID string, in EventDayInput) (*domain.Event, error)
	UpdateDay(ctx context.Context, actor *domain.User, eventID, dayID string, in EventDayInput) (*domain.Event, error)
	DeleteDay(ctx context.Context, actor *domain.User, eventID, dayID string) error

	// Registrations returns the roster for an event the actor owns.
	Registrations(ctx context.Context, actor *domain.User, eventID string) (*domain.Booking, error)
}
