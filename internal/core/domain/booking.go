package domain

// Booking is the registration roster for a single event. One booking document
// exists per event, created alongside it.
type Booking struct {
	ID              string   `json:"id"`
	EventID         string   `json:"event_id"`
	RegisteredUsers []string `json:"registered_users"`
}
