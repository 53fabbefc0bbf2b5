package domain

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")
var ErrEventDayNotFound = errors.New("event day not found")
var ErrPastDate = errors.New("cannot schedule an event in the past")

// EventDay is a sub-entity of an event: one scheduled day of a multi-day event.
type EventDay struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue,omitempty"`
}

// Event is the aggregate root for a club-owned event. ClubID is always the
// plain hex id of the owning user; ownership checks compare against it directly.
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	Venue       string     `json:"venue"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Charge      int64      `json:"charge"` // registration fee in paise
	ClubID      string     `json:"club_id"`
	Days        []EventDay `json:"days"`
	CreatedAt   time.Time  `json:"created_at"`
}

// OwnedBy reports whether userID is the owning club of the event.
func (e *Event) OwnedBy(userID string) bool {
	return e.ClubID != "" && e.ClubID == userID
}

// Day returns the sub-entity with the given id, or nil.
func (e *Event) Day(dayID string) *EventDay {
	for i := range e.Days {
		if e.Days[i].ID == dayID {
			return &e.Days[i]
		}
	}
	return nil
}
