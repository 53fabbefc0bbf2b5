package domain

import (
	"errors"
	"time"
)

// OrderStatus tracks a payment order through the gateway lifecycle.
type OrderStatus string

const (
	OrderCreated  OrderStatus = "created"
	OrderCaptured OrderStatus = "captured"
	OrderFailed   OrderStatus = "failed"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrPaymentVerification = errors.New("payment signature verification failed")

// Order records a payment order raised against the gateway for cart contents.
// TotalAmount is in paise and always computed server-side from event charges.
type Order struct {
	ID              string      `json:"id"`
	InternalOrderID string      `json:"internal_order_id"`
	UserID          string      `json:"user_id"`
	EventIDs        []string    `json:"event_ids"`
	TotalAmount     int64       `json:"total_amount"`
	GatewayOrderID  string      `json:"gateway_order_id"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}
