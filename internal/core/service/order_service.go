package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

// OrderService implements checkout against the payment gateway and tracks
// orders through created → captured|failed.
type OrderService struct {
	orders   ports.OrderRepository
	carts    ports.CartRepository
	events   ports.EventRepository
	bookings ports.BookingRepository
	gateway  ports.PaymentGateway
	receipts ports.ReceiptQueue
	log      zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	events ports.EventRepository,
	bookings ports.BookingRepository,
	gateway ports.PaymentGateway,
	receipts ports.ReceiptQueue,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		events:   events,
		bookings: bookings,
		gateway:  gateway,
		receipts: receipts,
		log:      log,
	}
}

// Checkout raises a gateway order for the cart contents. The total is the sum
// of stored event charges; client-supplied amounts are never trusted.
func (s *OrderService) Checkout(ctx context.Context, user *domain.User) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(cart.EventIDs) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var total int64
	eventIDs := make([]string, 0, len(cart.EventIDs))
	for _, id := range cart.EventIDs {
		event, err := s.events.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		total += event.Charge
		eventIDs = append(eventIDs, event.ID)
	}

	internalID := generateOrderID()
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, total, internalID)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	order := &domain.Order{
		InternalOrderID: internalID,
		UserID:          user.ID,
		EventIDs:        eventIDs,
		TotalAmount:     total,
		GatewayOrderID:  gatewayOrderID,
		Status:          domain.OrderCreated,
		CreatedAt:       time.Now().UTC(),
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("order_id", created.InternalOrderID).Int64("amount", total).Msg("order created")
	return created, nil
}

// Confirm verifies the gateway's payment signature and captures the order:
// the user is registered into each event roster, the cart is cleared, and a
// receipt mail is enqueued. A bad signature marks the order failed.
func (s *OrderService) Confirm(ctx context.Context, user *domain.User, in ports.ConfirmPaymentInput) (*domain.Order, error) {
	order, err := s.orders.FindByGatewayOrderID(ctx, in.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != user.ID {
		return nil, domain.ErrForbidden
	}

	if !s.gateway.VerifySignature(in.GatewayOrderID, in.PaymentID, in.Signature) {
		if upErr := s.orders.UpdateStatus(ctx, order.ID, domain.OrderFailed); upErr != nil {
			s.log.Error().Err(upErr).Str("order_id", order.InternalOrderID).Msg("failed to mark order failed")
		}
		return nil, domain.ErrPaymentVerification
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderCaptured); err != nil {
		return nil, err
	}
	order.Status = domain.OrderCaptured

	eventNames := make([]string, 0, len(order.EventIDs))
	for _, eventID := range order.EventIDs {
		if err := s.bookings.RegisterUser(ctx, eventID, user.ID); err != nil {
			s.log.Error().Err(err).Str("event_id", eventID).Str("user_id", user.ID).Msg("failed to register booking")
			continue
		}
		if event, err := s.events.FindByID(ctx, eventID); err == nil {
			eventNames = append(eventNames, event.Name)
		}
	}

	if err := s.carts.Clear(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to clear cart after capture")
	}

	if s.receipts != nil {
		s.receipts.Enqueue(ports.ReceiptJob{
			Email:           user.Email,
			Name:            user.Name,
			InternalOrderID: order.InternalOrderID,
			TotalAmount:     order.TotalAmount,
			EventNames:      eventNames,
		})
	}

	s.log.Info().Str("order_id", order.InternalOrderID).Msg("order captured")
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// generateOrderID returns a unique order reference in the format CU-XXXXXXXX.
func generateOrderID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("CU-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("CU-%08X", b)
}
