package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/domain/order"
	"github.com/example/shopmart/internal/domain/wishlist"
	"github.com/example/shopmart/internal/infrastructure/store"
)

// MockStore is an in-memory implementation of store.StoreInterface that
// records calls for assertions in tests.
type MockStore struct {
	mu        sync.RWMutex
	carts     map[string]cart.Cart
	wishlists map[string][]wishlist.Entry
	users     map[string]*store.User
	orders    map[string]*order.Order

	// For tracking calls in tests
	PutCartCalls     []PutCartCall
	PutWishlistCalls []PutWishlistCall
	CreateOrderCalls []*order.Order

	// Error injection
	GetCartErr     error
	GetWishlistErr error
	PutCartErr     error
	PutWishlistErr error
	CreateOrderErr error
}

// PutCartCall records parameters passed to PutCart.
type PutCartCall struct {
	UserID string
	Cart   cart.Cart
}

// PutWishlistCall records parameters passed to PutWishlist.
type PutWishlistCall struct {
	UserID  string
	Entries []wishlist.Entry
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		carts:     make(map[string]cart.Cart),
		wishlists: make(map[string][]wishlist.Entry),
		users:     make(map[string]*store.User),
		orders:    make(map[string]*order.Order),
	}
}

func (m *MockStore) GetCart(ctx context.Context, userID string) (cart.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetCartErr != nil {
		return cart.Empty(), m.GetCartErr
	}
	c, ok := m.carts[userID]
	if !ok {
		return cart.Empty(), store.ErrNotFound
	}
	return c.Clone(), nil
}

func (m *MockStore) PutCart(ctx context.Context, userID string, c cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCartCalls = append(m.PutCartCalls, PutCartCall{UserID: userID, Cart: c.Clone()})
	if m.PutCartErr != nil {
		return m.PutCartErr
	}
	m.carts[userID] = c.Clone()
	return nil
}

func (m *MockStore) GetWishlist(ctx context.Context, userID string) ([]wishlist.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetWishlistErr != nil {
		return nil, m.GetWishlistErr
	}
	entries, ok := m.wishlists[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]wishlist.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (m *MockStore) PutWishlist(ctx context.Context, userID string, entries []wishlist.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recorded := make([]wishlist.Entry, len(entries))
	copy(recorded, entries)
	m.PutWishlistCalls = append(m.PutWishlistCalls, PutWishlistCall{UserID: userID, Entries: recorded})
	if m.PutWishlistErr != nil {
		return m.PutWishlistErr
	}
	m.wishlists[userID] = recorded
	return nil
}

func (m *MockStore) GetUser(ctx context.Context, userID string) (*store.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) PutUser(ctx context.Context, u *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *MockStore) CreateOrder(ctx context.Context, o *order.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateOrderCalls = append(m.CreateOrderCalls, o)
	if m.CreateOrderErr != nil {
		return "", m.CreateOrderErr
	}
	id := uuid.New().String()
	stored := *o
	stored.ID = id
	m.orders[id] = &stored
	return id, nil
}

func (m *MockStore) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *MockStore) GetOrdersForUser(ctx context.Context, userID string) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *MockStore) UpdateOrderStatus(ctx context.Context, orderID string, target order.Status, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	return o.TransitionTo(target, description, time.Now())
}

// SetCart seeds a persisted cart directly for testing.
func (m *MockStore) SetCart(userID string, c cart.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = c.Clone()
}

// SetWishlist seeds a persisted wishlist directly for testing.
func (m *MockStore) SetWishlist(userID string, entries []wishlist.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]wishlist.Entry, len(entries))
	copy(out, entries)
	m.wishlists[userID] = out
}

// StoredCart returns the currently persisted cart for assertions.
func (m *MockStore) StoredCart(userID string) (cart.Cart, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[userID]
	return c, ok
}

// StoredWishlist returns the currently persisted wishlist for assertions.
func (m *MockStore) StoredWishlist(userID string) ([]wishlist.Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries, ok := m.wishlists[userID]
	return entries, ok
}

// Reset clears all state and recorded calls.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts = make(map[string]cart.Cart)
	m.wishlists = make(map[string][]wishlist.Entry)
	m.users = make(map[string]*store.User)
	m.orders = make(map[string]*order.Order)
	m.PutCartCalls = nil
	m.PutWishlistCalls = nil
	m.CreateOrderCalls = nil
	m.GetCartErr = nil
	m.GetWishlistErr = nil
	m.PutCartErr = nil
	m.PutWishlistErr = nil
	m.CreateOrderErr = nil
}
