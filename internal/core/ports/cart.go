package ports

import (
	"context"

	"github.com/campusunify/campus-api/internal/core/domain"
)

// CartRepository persists per-user carts. A missing cart reads as empty.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem inserts eventID into the cart, failing with ErrCartDuplicate
	// when it is already present.
	AddItem(ctx context.Context, userID, eventID string) error
	RemoveItem(ctx context.Context, userID, eventID string) error
	Clear(ctx context.Context, userID string) error
}

// CartService manages the acting user's cart.
type CartService interface {
	// Get returns the cart contents resolved to full events.
	Get(ctx context.Context, userID string) ([]*domain.Event, error)
	Add(ctx context.Context, userID, eventID string) error
	Remove(ctx context.Context, userID, eventID string) error
	Clear(ctx context.Context, userID string) error
}
