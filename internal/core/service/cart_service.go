package service

import (
	"context"

	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

// CartService manages per-user carts of event ids.
type CartService struct {
	carts  ports.CartRepository
	events ports.EventRepository
}

func NewCartService(carts ports.CartRepository, events ports.EventRepository) *CartService {
	return &CartService{carts: carts, events: events}
}

// Get resolves the cart to full events. Events deleted since they were added
// are silently dropped from the view.
func (s *CartService) Get(ctx context.Context, userID string) ([]*domain.Event, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	events := make([]*domain.Event, 0, len(cart.EventIDs))
	for _, id := range cart.EventIDs {
		event, err := s.events.FindByID(ctx, id)
		if err != nil {
			if err == domain.ErrEventNotFound {
				continue
			}
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// Add puts an event in the cart after confirming it exists.
func (s *CartService) Add(ctx context.Context, userID, eventID string) error {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return err
	}
	return s.carts.AddItem(ctx, userID, eventID)
}

func (s *CartService) Remove(ctx context.Context, userID, eventID string) error {
	return s.carts.RemoveItem(ctx, userID, eventID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}
