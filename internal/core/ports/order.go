package ports

import (
	"context"

	"github.com/campusunify/campus-api/internal/core/domain"
)

// OrderRepository persists payment orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// PaymentGateway is the outbound payment-provider surface. The core depends
// only on order creation and signature verification.
type PaymentGateway interface {
	// CreateOrder raises an order for amount (paise) and returns the gateway
	// order id.
	CreateOrder(ctx context.Context, amount int64, receipt string) (string, error)
	// VerifySignature checks the gateway's HMAC over orderID|paymentID.
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}

// ConfirmPaymentInput is the client-supplied proof of a completed payment.
type ConfirmPaymentInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// ReceiptJob is an asynchronous order-receipt notification.
type ReceiptJob struct {
	Email           string
	Name            string
	InternalOrderID string
	TotalAmount     int64
	EventNames      []string
}

// ReceiptQueue enqueues receipt notifications for background delivery.
// Receipt mail is non-critical: enqueueing never fails the request.
type ReceiptQueue interface {
	Enqueue(job ReceiptJob)
}

// OrderService implements checkout and payment-capture tracking.
type OrderService interface {
	// Checkout raises a gateway order for the user's cart and persists it in
	// the created state. Totals are computed from stored event charges.
	Checkout(ctx context.Context, user *domain.User) (*domain.Order, error)
	// Confirm verifies the gateway signature, captures the order, registers
	// the user into each event's roster and clears the cart.
	Confirm(ctx context.Context, user *domain.User, in ConfirmPaymentInput) (*domain.Order, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Order, error)
}
