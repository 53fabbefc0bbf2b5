package handler

import "time"

// --- Request types for the event surface ---

type createEventRequest struct {
	Name        string    `json:"name"        validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date"        validate:"required"`
	Venue       string    `json:"venue"       validate:"required"`
	CoverImage  string    `json:"cover_image"`
	Charge      int64     `json:"charge"      validate:"gte=0"` // paise
}

// updateEventRequest carries partial updates; zero fields are left unchanged.
// Days are managed through the day endpoints, never here.
type updateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	CoverImage  string    `json:"cover_image"`
	Charge      int64     `json:"charge" validate:"gte=0"`
}

type createEventDayRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" validate:"required"`
	Venue       string    `json:"venue"`
}

type updateEventDayRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
}
