package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopmart/internal/auth"
	"github.com/example/shopmart/internal/catalog"
	catalogmocks "github.com/example/shopmart/internal/catalog/mocks"
	"github.com/example/shopmart/internal/checkout"
	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/infrastructure/store/mocks"
	"github.com/example/shopmart/internal/session"
	"github.com/example/shopmart/internal/snapcache"
)

type testEnv struct {
	router  http.Handler
	store   *mocks.MockStore
	session *session.Session
	auth    *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := mocks.NewMockStore()
	cache := snapcache.NewMemoryCache()

	sess := session.New(st, cache)
	t.Cleanup(sess.Close)
	require.NoError(t, sess.Start(context.Background()))

	repo := catalogmocks.NewMockRepository()
	product := catalog.Product{
		ID:              "elec-001",
		Name:            "iPhone 15 Pro Max",
		Category:        "electronics",
		OriginalPrice:   159900,
		DiscountedPrice: 149900,
		Stock:           45,
	}
	require.NoError(t, repo.Upsert(context.Background(), &product))

	jwtService := auth.NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)
	authService := auth.NewService(st, jwtService)
	sess.Attach(authService)

	checkoutService := checkout.NewService(st, checkout.DefaultPricing(), nil)

	handlers := NewHandlers(sess, checkoutService, repo, st)
	authHandlers := NewAuthHandlers(authService, sess, st)

	return &testEnv{
		router:  NewRouter(handlers, authHandlers, jwtService),
		store:   st,
		session: sess,
		auth:    authService,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signIn(t *testing.T, email string) string {
	t.Helper()
	_, err := e.auth.Register(context.Background(), email, "password123", "Test User")
	require.NoError(t, err)
	tokens, err := e.auth.SignIn(context.Background(), email, "password123")
	require.NoError(t, err)
	return tokens.AccessToken
}

func TestAPI_GetProducts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/products", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 1)
}

func TestAPI_GetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/products/missing", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_AddToCart_Guest(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/items", map[string]any{
		"product_id": "elec-001",
		"quantity":   2,
	}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var snap cart.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 2, snap.TotalQuantity)
	assert.Equal(t, 2*149900, snap.TotalAmount)
}

func TestAPI_AddToCart_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/items", map[string]any{
		"product_id": "missing",
	}, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, env.session.Cart().Snapshot().IsEmpty())
}

func TestAPI_UpdateAndRemoveCartItem(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "elec-001"}, "")

	rec := env.do(t, http.MethodPut, "/cart/items/elec-001", map[string]any{"quantity": 5}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var snap cart.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 5, snap.TotalQuantity)

	rec = env.do(t, http.MethodDelete, "/cart/items/elec-001", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.True(t, snap.IsEmpty())
}

func TestAPI_WishlistRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/wishlist/items", map[string]any{"product_id": "elec-001"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/wishlist/items/elec-001/move-to-cart", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, env.session.Cart().Snapshot().TotalQuantity)
	assert.False(t, env.session.Wishlist().Contains("elec-001"))
}

func TestAPI_MoveToCart_NotInWishlist(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/wishlist/items/elec-001/move-to-cart", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Checkout_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/checkout", map[string]any{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Checkout_Success(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "buyer@example.com")

	env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "elec-001"}, token)

	rec := env.do(t, http.MethodPost, "/checkout", map[string]any{
		"address": map[string]any{
			"full_name":     "Asha Rao",
			"phone":         "9876543210",
			"address_line1": "14 MG Road",
			"city":          "Bengaluru",
			"state":         "Karnataka",
			"pincode":       "560001",
		},
		"payment_method": "cod",
	}, token)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var placed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	assert.NotEmpty(t, placed["id"])
	assert.True(t, env.session.Cart().Snapshot().IsEmpty())
}

func TestAPI_Checkout_InvalidAddress(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "buyer@example.com")

	env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "elec-001"}, token)

	rec := env.do(t, http.MethodPost, "/checkout", map[string]any{
		"address":        map[string]any{"full_name": "Asha Rao"},
		"payment_method": "cod",
	}, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["fields"])
}

func TestAPI_Checkout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "buyer@example.com")

	rec := env.do(t, http.MethodPost, "/checkout", map[string]any{
		"address": map[string]any{
			"full_name":     "Asha Rao",
			"phone":         "9876543210",
			"address_line1": "14 MG Road",
			"city":          "Bengaluru",
			"state":         "Karnataka",
			"pincode":       "560001",
		},
		"payment_method": "card",
	}, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
}

func TestAPI_Orders_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	buyerToken := env.signIn(t, "buyer@example.com")

	env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "elec-001"}, buyerToken)
	rec := env.do(t, http.MethodPost, "/checkout", map[string]any{
		"address": map[string]any{
			"full_name":     "Asha Rao",
			"phone":         "9876543210",
			"address_line1": "14 MG Road",
			"city":          "Bengaluru",
			"state":         "Karnataka",
			"pincode":       "560001",
		},
		"payment_method": "card",
	}, buyerToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	orderID := placed["id"].(string)

	otherToken := env.signIn(t, "other@example.com")

	rec = env.do(t, http.MethodGet, "/orders/"+orderID, nil, otherToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/orders/"+orderID, nil, buyerToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_CancelOrder(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "buyer@example.com")

	env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "elec-001"}, token)
	rec := env.do(t, http.MethodPost, "/checkout", map[string]any{
		"address": map[string]any{
			"full_name":     "Asha Rao",
			"phone":         "9876543210",
			"address_line1": "14 MG Road",
			"city":          "Bengaluru",
			"state":         "Karnataka",
			"pincode":       "560001",
		},
		"payment_method": "card",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	orderID := placed["id"].(string)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/orders/%s/cancel", orderID), map[string]any{
		"reason": "ordered by mistake",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var cancelled map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	assert.Equal(t, "cancelled", cancelled["status"])

	// Cancelling again is rejected by the status machine
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/orders/%s/cancel", orderID), nil, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_AuthRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", map[string]any{
		"email":        "alice@example.com",
		"password":     "password123",
		"display_name": "Alice",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tokens auth.Tokens `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.False(t, env.session.Identity().IsGuest())

	rec = env.do(t, http.MethodGet, "/auth/me", nil, resp.Tokens.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")

	rec = env.do(t, http.MethodPost, "/auth/logout", nil, resp.Tokens.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.session.Identity().IsGuest())
}

func TestAPI_Login_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "alice@example.com")
	env.auth.SignOut()

	rec := env.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_GuestCartSurvivesIntoLogin(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/cart/items", map[string]any{"product_id": "elec-001", "quantity": 3}, "")
	// Guest snapshot must land in the cache before sign-in reconciles
	env.session.Flush()

	token := env.signIn(t, "alice@example.com")

	rec := env.do(t, http.MethodGet, "/cart", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap cart.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 3, snap.TotalQuantity)
}
