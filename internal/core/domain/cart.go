package domain

import "errors"

var ErrCartDuplicate = errors.New("event is already in the cart")
var ErrEmptyCart = errors.New("cart is empty")

// Cart holds the event ids a user intends to pay for.
type Cart struct {
	UserID   string   `json:"user_id"`
	EventIDs []string `json:"event_ids"`
}
