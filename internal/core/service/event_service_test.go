package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

type stubEventRepo struct {
	events map[string]*domain.Event
	seq    int
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[string]*domain.Event)}
}

func cloneEvent(e *domain.Event) *domain.Event {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Days = append([]domain.EventDay(nil), e.Days...)
	return &clone
}

func (r *stubEventRepo) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	copy := cloneEvent(event)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("event_%d", r.seq)
	}
	r.events[copy.ID] = cloneEvent(copy)
	return cloneEvent(copy), nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (r *stubEventRepo) FindLatest(_ context.Context, after time.Time, limit int) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.events {
		if e.Date.After(after) {
			out = append(out, cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubEventRepo) List(_ context.Context, filter ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	var out []*domain.Event
	for _, e := range r.events {
		if filter.ClubID != "" && e.ClubID != filter.ClubID {
			continue
		}
		out = append(out, cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	total := int64(len(out))

	start := (filter.Page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *stubEventRepo) Update(_ context.Context, event *domain.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *stubEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

type stubBookingRepo struct {
	rosters map[string][]string
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{rosters: make(map[string][]string)}
}

func (r *stubBookingRepo) Create(_ context.Context, eventID string) error {
	r.rosters[eventID] = []string{}
	return nil
}

func (r *stubBookingRepo) FindByEvent(_ context.Context, eventID string) (*domain.Booking, error) {
	users, ok := r.rosters[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &domain.Booking{ID: "booking_" + eventID, EventID: eventID, RegisteredUsers: users}, nil
}

func (r *stubBookingRepo) RegisterUser(_ context.Context, eventID, userID string) error {
	for _, u := range r.rosters[eventID] {
		if u == userID {
			return nil
		}
	}
	r.rosters[eventID] = append(r.rosters[eventID], userID)
	return nil
}

func (r *stubBookingRepo) Delete(_ context.Context, eventID string) error {
	delete(r.rosters, eventID)
	return nil
}

var (
	clubA   = &domain.User{ID: "club_a", Role: domain.RoleClub}
	clubB   = &domain.User{ID: "club_b", Role: domain.RoleClub}
	student = &domain.User{ID: "student_1", Role: domain.RoleStudent}
	admin   = &domain.User{ID: "admin_1", Role: domain.RoleAdmin}
)

func newEventService(events *stubEventRepo, bookings *stubBookingRepo) *EventService {
	return NewEventService(events, bookings, zerolog.Nop())
}

func createEvent(t *testing.T, svc *EventService, owner *domain.User, name string) *domain.Event {
	t.Helper()
	event, err := svc.Create(context.Background(), owner, ports.EventInput{
		Name:        name,
		Description: "a test event",
		Date:        time.Now().Add(48 * time.Hour),
		Venue:       "Main Hall",
		Charge:      50000,
	})
	if err != nil {
		t.Fatalf("create event failed: %v", err)
	}
	return event
}

func TestEventService_Create_OpensRoster(t *testing.T) {
	events := newStubEventRepo()
	bookings := newStubBookingRepo()
	svc := newEventService(events, bookings)

	event := createEvent(t, svc, clubA, "Tech Fest")

	if event.ClubID != clubA.ID {
		t.Fatalf("expected owner %s, got %s", clubA.ID, event.ClubID)
	}
	roster, err := bookings.FindByEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("roster not created: %v", err)
	}
	if len(roster.RegisteredUsers) != 0 {
		t.Fatalf("expected empty roster, got %v", roster.RegisteredUsers)
	}
}

func TestEventService_Create_PastDate(t *testing.T) {
	svc := newEventService(newStubEventRepo(), newStubBookingRepo())

	_, err := svc.Create(context.Background(), clubA, ports.EventInput{
		Name: "Yesterday", Description: "x", Date: time.Now().Add(-time.Hour), Venue: "Hall",
	})
	if err != domain.ErrPastDate {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}
}

func TestEventService_Get_ClubScoping(t *testing.T) {
	events := newStubEventRepo()
	svc := newEventService(events, newStubBookingRepo())
	event := createEvent(t, svc, clubA, "Club A Event")

	if _, err := svc.Get(context.Background(), clubA, event.ID); err != nil {
		t.Fatalf("owner should see own event: %v", err)
	}
	if _, err := svc.Get(context.Background(), clubB, event.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for another club, got %v", err)
	}
	if _, err := svc.Get(context.Background(), student, event.ID); err != nil {
		t.Fatalf("students may view any event: %v", err)
	}
	if _, err := svc.Get(context.Background(), admin, event.ID); err != nil {
		t.Fatalf("admins may view any event: %v", err)
	}
}

func TestEventService_List_ClubAlwaysScopedToOwn(t *testing.T) {
	events := newStubEventRepo()
	svc := newEventService(events, newStubBookingRepo())
	createEvent(t, svc, clubA, "A1")
	createEvent(t, svc, clubA, "A2")
	createEvent(t, svc, clubB, "B1")

	// A club cannot escape its scope by asking for another club's events.
	listed, total, err := svc.List(context.Background(), clubA, ports.ListEventsFilter{ClubID: clubB.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(listed) != 2 {
		t.Fatalf("expected 2 own events, got len=%d total=%d", len(listed), total)
	}
	for _, e := range listed {
		if e.ClubID != clubA.ID {
			t.Fatalf("foreign event leaked into club listing: %+v", e)
		}
	}

	_, total, err = svc.List(context.Background(), student, ports.ListEventsFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("students see all events, got total=%d", total)
	}
}

func TestEventService_List_PaginationDefaults(t *testing.T) {
	events := newStubEventRepo()
	svc := newEventService(events, newStubBookingRepo())
	for i := 0; i < 25; i++ {
		createEvent(t, svc, clubA, fmt.Sprintf("E%d", i))
	}

	listed, total, err := svc.List(context.Background(), student, ports.ListEventsFilter{Page: 0, Limit: 0})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != defaultPageLimit {
		t.Fatalf("expected default page of %d, got %d", defaultPageLimit, len(listed))
	}
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}

	listed, _, err = svc.List(context.Background(), student, ports.ListEventsFilter{Page: 1, Limit: 1000})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) > maxPageLimit {
		t.Fatalf("limit cap not applied, got %d", len(listed))
	}
}

func TestEventService_Update_OwnershipEnforced(t *testing.T) {
	events := newStubEventRepo()
	svc := newEventService(events, newStubBookingRepo())
	event := createEvent(t, svc, clubA, "Original")

	if _, err := svc.Update(context.Background(), clubB, event.ID, ports.EventInput{Name: "Hijacked"}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(context.Background(), clubA, event.ID, ports.EventInput{Name: "Renamed"})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name not updated: %s", updated.Name)
	}
	if updated.Venue != "Main Hall" {
		t.Fatalf("partial update clobbered venue: %s", updated.Venue)
	}
}

func TestEventService_Delete_RemovesRoster(t *testing.T) {
	events := newStubEventRepo()
	bookings := newStubBookingRepo()
	svc := newEventService(events, bookings)
	event := createEvent(t, svc, clubA, "Doomed")

	if err := svc.Delete(context.Background(), clubB, event.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), clubA, event.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := events.FindByID(context.Background(), event.ID); err != domain.ErrEventNotFound {
		t.Fatalf("event not removed: %v", err)
	}
	if _, ok := bookings.rosters[event.ID]; ok {
		t.Fatalf("roster not removed")
	}
}

func TestEventService_DayLifecycle(t *testing.T) {
	events := newStubEventRepo()
	svc := newEventService(events, newStubBookingRepo())
	event := createEvent(t, svc, clubA, "Multi-day")

	withDay, err := svc.CreateDay(context.Background(), clubA, event.ID, ports.EventDayInput{
		Name: "Day One", Date: time.Now().Add(72 * time.Hour), Venue: "Room 1",
	})
	if err != nil {
		t.Fatalf("create day failed: %v", err)
	}
	if len(withDay.Days) != 1 || withDay.Days[0].ID == "" {
		t.Fatalf("day not appended with an id: %+v", withDay.Days)
	}
	dayID := withDay.Days[0].ID

	day, err := svc.GetDay(context.Background(), event.ID, dayID)
	if err != nil {
		t.Fatalf("get day failed: %v", err)
	}
	if day.Name != "Day One" {
		t.Fatalf("unexpected day: %+v", day)
	}

	updated, err := svc.UpdateDay(context.Background(), clubA, event.ID, dayID, ports.EventDayInput{Venue: "Room 2"})
	if err != nil {
		t.Fatalf("update day failed: %v", err)
	}
	if got := updated.Day(dayID); got.Venue != "Room 2" || got.Name != "Day One" {
		t.Fatalf("partial day update wrong: %+v", got)
	}

	if err := svc.DeleteDay(context.Background(), clubA, event.ID, dayID); err != nil {
		t.Fatalf("delete day failed: %v", err)
	}
	if _, err := svc.GetDay(context.Background(), event.ID, dayID); err != domain.ErrEventDayNotFound {
		t.Fatalf("expected ErrEventDayNotFound, got %v", err)
	}
}

func TestEventService_DayMutations_OwnershipEnforced(t *testing.T) {
	events := newStubEventRepo()
	svc := newEventService(events, newStubBookingRepo())
	event := createEvent(t, svc, clubA, "Guarded")

	future := time.Now().Add(72 * time.Hour)
	if _, err := svc.CreateDay(context.Background(), clubB, event.ID, ports.EventDayInput{Name: "X", Date: future}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	withDay, err := svc.CreateDay(context.Background(), clubA, event.ID, ports.EventDayInput{Name: "X", Date: future})
	if err != nil {
		t.Fatalf("create day failed: %v", err)
	}
	dayID := withDay.Days[0].ID

	if _, err := svc.UpdateDay(context.Background(), clubB, event.ID, dayID, ports.EventDayInput{Name: "Y"}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteDay(context.Background(), clubB, event.ID, dayID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestEventService_Latest(t *testing.T) {
	events := newStubEventRepo()
	svc := newEventService(events, newStubBookingRepo())
	for i := 0; i < 10; i++ {
		createEvent(t, svc, clubA, fmt.Sprintf("Upcoming %d", i))
	}

	latest, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if len(latest) != latestLimit {
		t.Fatalf("expected %d events, got %d", latestLimit, len(latest))
	}
}

func TestEventService_Registrations_Access(t *testing.T) {
	events := newStubEventRepo()
	bookings := newStubBookingRepo()
	svc := newEventService(events, bookings)
	event := createEvent(t, svc, clubA, "Roster")

	if err := bookings.RegisterUser(context.Background(), event.ID, student.ID); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	roster, err := svc.Registrations(context.Background(), clubA, event.ID)
	if err != nil {
		t.Fatalf("owner roster access failed: %v", err)
	}
	if len(roster.RegisteredUsers) != 1 || roster.RegisteredUsers[0] != student.ID {
		t.Fatalf("unexpected roster: %+v", roster.RegisteredUsers)
	}

	if _, err := svc.Registrations(context.Background(), clubB, event.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for foreign club, got %v", err)
	}
	if _, err := svc.Registrations(context.Background(), admin, event.ID); err != nil {
		t.Fatalf("admins may inspect any roster: %v", err)
	}
}
