package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/shopmart/internal/domain/cart"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid order status transition")
	ErrOrderCancelled  = errors.New("order is already cancelled")
	ErrOrderDelivered  = errors.New("order is already delivered")
)

// validTransitions defines allowed state transitions. The happy path moves
// forward one step at a time; cancellation is reachable until shipping.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {}, // terminal state
	StatusCancelled:  {}, // terminal state
}

type Address struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

type TimelineEntry struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// Order is an immutable record of a checkout, except for the status fields,
// the timeline and UpdatedAt. Lines are a snapshot copy taken at submission;
// the cart is never consulted again after creation.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Lines           []cart.Line     `json:"lines"`
	ShippingAddress Address         `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Subtotal        int             `json:"subtotal"`
	Tax             int             `json:"tax"`
	Shipping        int             `json:"shipping"`
	Total           int             `json:"total"`
	Status          Status          `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	Timeline        []TimelineEntry `json:"timeline"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// transitionError returns an appropriate error for an invalid transition.
func (o *Order) transitionError(target Status) error {
	switch o.Status {
	case StatusCancelled:
		return ErrOrderCancelled
	case StatusDelivered:
		return ErrOrderDelivered
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
	}
}

// TransitionTo advances the status, appends one timeline entry and bumps
// UpdatedAt. Every status change in the system goes through here.
func (o *Order) TransitionTo(target Status, description string, now time.Time) error {
	if !o.CanTransitionTo(target) {
		return o.transitionError(target)
	}
	o.Status = target
	o.UpdatedAt = now
	o.Timeline = append(o.Timeline, TimelineEntry{
		Status:      string(target),
		Timestamp:   now,
		Description: description,
	})
	return nil
}
