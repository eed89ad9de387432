package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/shopmart/internal/domain/order"
	"github.com/example/shopmart/internal/email"
	"github.com/example/shopmart/internal/infrastructure/kafka"
	"github.com/example/shopmart/internal/infrastructure/store"
)

// Handler turns order-placed events into confirmation emails.
type Handler struct {
	emailService *email.Service
	store        store.StoreInterface
}

func NewHandler(emailSvc *email.Service, st store.StoreInterface) *Handler {
	return &Handler{
		emailService: emailSvc,
		store:        st,
	}
}

// HandleEvent processes one event from Kafka. Unknown event types are
// skipped.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var envelope kafka.Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		log.Printf("[Notifier] Failed to unmarshal envelope: %v", err)
		return err
	}

	if envelope.Type == order.EventOrderPlaced {
		return h.handleOrderPlaced(ctx, envelope)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(ctx context.Context, envelope kafka.Envelope) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(envelope.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced event for order %s, user %s", e.OrderID, e.UserID)

	user, err := h.store.GetUser(ctx, e.UserID)
	if err != nil {
		// A missing or unreachable user record costs one email, not a
		// redelivery loop.
		log.Printf("[Notifier] Could not load user %s: %v", e.UserID, err)
		return nil
	}

	if err := h.emailService.SendOrderConfirmation(user.Email, e.OrderID, e.Total, e.Lines); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", user.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", user.Email, e.OrderID)
	return nil
}
