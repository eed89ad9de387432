package store

import (
	"context"
	"errors"
	"time"

	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/domain/order"
	"github.com/example/shopmart/internal/domain/wishlist"
)

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable means the backing store could not be reached. Cart and
	// wishlist writers treat it as best-effort; order creation does not.
	ErrUnavailable = errors.New("store unavailable")
)

// User is the identity-linked account record.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// StoreInterface is the persistent document store behind the session
// engine. Carts and wishlists are whole documents keyed by user id,
// written last-write-wins; there is no merge-on-conflict.
type StoreInterface interface {
	GetCart(ctx context.Context, userID string) (cart.Cart, error)
	PutCart(ctx context.Context, userID string, c cart.Cart) error

	GetWishlist(ctx context.Context, userID string) ([]wishlist.Entry, error)
	PutWishlist(ctx context.Context, userID string, entries []wishlist.Entry) error

	GetUser(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	PutUser(ctx context.Context, u *User) error

	// CreateOrder assigns and returns the order id.
	CreateOrder(ctx context.Context, o *order.Order) (string, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	GetOrdersForUser(ctx context.Context, userID string) ([]order.Order, error)
	// UpdateOrderStatus applies a status transition through the order state
	// machine and appends the matching timeline entry.
	UpdateOrderStatus(ctx context.Context, orderID string, target order.Status, description string) error
}
