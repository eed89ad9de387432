package order

import (
	"time"

	"github.com/example/shopmart/internal/domain/cart"
)

const EventOrderPlaced = "OrderPlaced"

// OrderPlaced is published after an order is durably created, for
// downstream consumers such as the confirmation notifier.
type OrderPlaced struct {
	OrderID  string      `json:"order_id"`
	UserID   string      `json:"user_id"`
	Lines    []cart.Line `json:"lines"`
	Total    int         `json:"total"`
	PlacedAt time.Time   `json:"placed_at"`
}
