package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	latestLimit      = 6
)

// EventService implements event and event-day CRUD with ownership checks.
type EventService struct {
	events   ports.EventRepository
	bookings ports.BookingRepository
	log      zerolog.Logger
}

func NewEventService(events ports.EventRepository, bookings ports.BookingRepository, log zerolog.Logger) *EventService {
	return &EventService{events: events, bookings: bookings, log: log}
}

// Latest returns the next upcoming events, soonest first. Public surface.
func (s *EventService) Latest(ctx context.Context) ([]*domain.Event, error) {
	return s.events.FindLatest(ctx, time.Now().UTC(), latestLimit)
}

// List returns a page of events. Club-role callers are always scoped to their
// own events regardless of the requested filter.
func (s *EventService) List(ctx context.Context, actor *domain.User, filter ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	if actor.Role == domain.RoleClub {
		filter.ClubID = actor.ID
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	return s.events.List(ctx, filter)
}

func (s *EventService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Clubs only see their own events; students and admins may view any.
	if actor.Role == domain.RoleClub && !event.OwnedBy(actor.ID) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// Create persists a new event owned by the acting club and opens its empty
// registration roster.
func (s *EventService) Create(ctx context.Context, actor *domain.User, in ports.EventInput) (*domain.Event, error) {
	if in.Date.Before(time.Now()) {
		return nil, domain.ErrPastDate
	}

	event := &domain.Event{
		Name:        in.Name,
		Description: in.Description,
		Date:        in.Date.UTC(),
		Venue:       in.Venue,
		CoverImage:  in.CoverImage,
		Charge:      in.Charge,
		ClubID:      actor.ID,
		Days:        []domain.EventDay{},
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Create(ctx, created.ID); err != nil {
		return nil, err
	}

	s.log.Info().Str("event_id", created.ID).Str("club_id", actor.ID).Msg("event created")
	return created, nil
}

// Update applies the non-zero fields of in. Days are never touched here.
func (s *EventService) Update(ctx context.Context, actor *domain.User, id string, in ports.EventInput) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	applyEventInput(event, in)
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if _, err := s.ownedEvent(ctx, actor, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("event_id", id).Msg("failed to remove booking roster")
	}
	s.log.Info().Str("event_id", id).Msg("event deleted")
	return nil
}

func (s *EventService) ListDays(ctx context.Context, eventID string) ([]domain.EventDay, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return event.Days, nil
}

func (s *EventService) GetDay(ctx context.Context, eventID, dayID string) (*domain.EventDay, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	day := event.Day(dayID)
	if day == nil {
		return nil, domain.ErrEventDayNotFound
	}
	return day, nil
}

func (s *EventService) CreateDay(ctx context.Context, actor *domain.User, eventID string, in ports.EventDayInput) (*domain.Event, error) {
	if in.Date.Before(time.Now()) {
		return nil, domain.ErrPastDate
	}
	event, err := s.ownedEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}

	dayID, err := randomHex(12)
	if err != nil {
		return nil, err
	}
	event.Days = append(event.Days, domain.EventDay{
		ID:          dayID,
		Name:        in.Name,
		Description: in.Description,
		Date:        in.Date.UTC(),
		Venue:       in.Venue,
	})
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) UpdateDay(ctx context.Context, actor *domain.User, eventID, dayID string, in ports.EventDayInput) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	day := event.Day(dayID)
	if day == nil {
		return nil, domain.ErrEventDayNotFound
	}

	if in.Name != "" {
		day.Name = in.Name
	}
	if in.Description != "" {
		day.Description = in.Description
	}
	if !in.Date.IsZero() {
		day.Date = in.Date.UTC()
	}
	if in.Venue != "" {
		day.Venue = in.Venue
	}
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteDay(ctx context.Context, actor *domain.User, eventID, dayID string) error {
	event, err := s.ownedEvent(ctx, actor, eventID)
	if err != nil {
		return err
	}
	if event.Day(dayID) == nil {
		return domain.ErrEventDayNotFound
	}

	days := event.Days[:0]
	for _, d := range event.Days {
		if d.ID != dayID {
			days = append(days, d)
		}
	}
	event.Days = days
	return s.events.Update(ctx, event)
}

// Registrations returns the roster for an event the actor owns. Admins may
// inspect any roster.
func (s *EventService) Registrations(ctx context.Context, actor *domain.User, eventID string) (*domain.Booking, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !event.OwnedBy(actor.ID) {
		return nil, domain.ErrForbidden
	}
	return s.bookings.FindByEvent(ctx, eventID)
}

// ownedEvent loads an event and enforces the ownership invariant for
// mutations: only the owning club may change it.
func (s *EventService) ownedEvent(ctx context.Context, actor *domain.User, id string) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.OwnedBy(actor.ID) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func applyEventInput(event *domain.Event, in ports.EventInput) {
	if in.Name != "" {
		event.Name = in.Name
	}
	if in.Description != "" {
		event.Description = in.Description
	}
	if !in.Date.IsZero() {
		event.Date = in.Date.UTC()
	}
	if in.Venue != "" {
		event.Venue = in.Venue
	}
	if in.CoverImage != "" {
		event.CoverImage = in.CoverImage
	}
	if in.Charge > 0 {
		event.Charge = in.Charge
	}
}
