// Package checkout assembles an immutable order from the current cart
// snapshot plus shipping and payment input.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/domain/order"
	"github.com/example/shopmart/internal/infrastructure/store"
)

// ErrEmptyCart rejects checkout before any store call is made.
var ErrEmptyCart = errors.New("cannot place an order with an empty cart")

// Publisher emits domain events after an order is durably created. A nil
// publisher disables events; publish failures never fail the checkout.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, data any) error
}

type Service struct {
	store     store.StoreInterface
	pricing   Pricing
	publisher Publisher
	now       func() time.Time
}

func NewService(st store.StoreInterface, pricing Pricing, publisher Publisher) *Service {
	return &Service{
		store:     st,
		pricing:   pricing,
		publisher: publisher,
		now:       time.Now,
	}
}

type PlaceOrderInput struct {
	Address       order.Address
	PaymentMethod order.PaymentMethod
}

// PlaceOrder validates the input, computes the totals, submits the order
// and clears the cart. On store failure the cart is left untouched so the
// caller can retry.
func (s *Service) PlaceOrder(ctx context.Context, userID string, eng *cart.Engine, in PlaceOrderInput) (*order.Order, error) {
	snapshot := eng.Snapshot()
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if verr := ValidateAddress(in.Address); verr != nil {
		return nil, verr
	}

	now := s.now().UTC()
	quote := s.pricing.Quote(snapshot.TotalAmount)

	paymentStatus := order.PaymentPaid
	if in.PaymentMethod == order.PaymentCOD {
		paymentStatus = order.PaymentPending
	}

	o := &order.Order{
		UserID:          userID,
		Lines:           snapshot.Lines,
		ShippingAddress: in.Address,
		PaymentMethod:   in.PaymentMethod,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		Shipping:        quote.Shipping,
		Total:           quote.Total,
		Status:          order.StatusPending,
		PaymentStatus:   paymentStatus,
		Timeline: []order.TimelineEntry{
			{Status: "placed", Timestamp: now, Description: "Your order has been placed successfully"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("order creation failed: %w", err)
	}
	o.ID = id

	// The order is durable; clearing the cart also clears the persisted
	// copy through the sync middleware.
	eng.Clear()

	if s.publisher != nil {
		event := order.OrderPlaced{
			OrderID:  id,
			UserID:   userID,
			Lines:    o.Lines,
			Total:    o.Total,
			PlacedAt: now,
		}
		if err := s.publisher.Publish(ctx, id, order.EventOrderPlaced, event); err != nil {
			log.Printf("[Checkout] Failed to publish OrderPlaced for order %s: %v", id, err)
		}
	}

	log.Printf("[Checkout] Order %s placed for user %s, total %d", id, userID, o.Total)
	return o, nil
}
