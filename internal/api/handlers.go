package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/shopmart/internal/api/middleware"
	"github.com/example/shopmart/internal/catalog"
	"github.com/example/shopmart/internal/checkout"
	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/domain/order"
	"github.com/example/shopmart/internal/domain/wishlist"
	"github.com/example/shopmart/internal/infrastructure/store"
	"github.com/example/shopmart/internal/session"
)

// Handlers is the HTTP surface over the session engine. It is a thin
// shell: all cart, wishlist and checkout semantics live in the engines
// and services it delegates to.
type Handlers struct {
	session  *session.Session
	checkout *checkout.Service
	catalog  catalog.Repository
	store    store.StoreInterface
}

func NewHandlers(sess *session.Session, checkoutSvc *checkout.Service, repo catalog.Repository, st store.StoreInterface) *Handlers {
	return &Handlers{
		session:  sess,
		checkout: checkoutSvc,
		catalog:  repo,
		store:    st,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	products, err := h.catalog.List(r.Context(), category)
	if err != nil {
		respondJSONError(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	product, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to fetch product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Categories)
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Cart().Snapshot())
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID  string `json:"product_id"`
		VariantKey string `json:"variant_key"`
		Quantity   int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to fetch product", http.StatusInternalServerError)
		return
	}
	if !product.InStock() {
		respondJSONError(w, "product out of stock", http.StatusConflict)
		return
	}

	snapshot, err := h.session.Cart().AddLine(cart.AddLineInput{
		ProductID:  product.ID,
		VariantKey: req.VariantKey,
		Name:       product.Name,
		UnitPrice:  product.DiscountedPrice,
		Quantity:   req.Quantity,
		ImageRef:   product.ImageURL,
	})
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		VariantKey string `json:"variant_key"`
		Quantity   int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snapshot := h.session.Cart().SetQuantity(productID, req.VariantKey, req.Quantity)
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/cart/items/")
	variantKey := r.URL.Query().Get("variant")

	snapshot := h.session.Cart().RemoveLine(productID, variantKey)
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Cart().Clear())
}

// Wishlist Handlers

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	entries := h.session.Wishlist().Snapshot()
	if entries == nil {
		entries = []wishlist.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondJSONError(w, "product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "failed to fetch product", http.StatusInternalServerError)
		return
	}

	entries := h.session.Wishlist().Add(wishlist.Entry{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.DiscountedPrice,
		ImageRef:  product.ImageURL,
	})
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/wishlist/items/")
	respondJSON(w, http.StatusOK, h.session.Wishlist().Remove(productID))
}

func (h *Handlers) MoveToCart(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSuffix(extractPathParam(r.URL.Path, "/wishlist/items/"), "/move-to-cart")

	if err := h.session.Wishlist().MoveToCart(productID, h.session.Cart()); err != nil {
		if errors.Is(err, wishlist.ErrNotInWishlist) {
			respondJSONError(w, "not in wishlist", http.StatusNotFound)
			return
		}
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"cart":     h.session.Cart().Snapshot(),
		"wishlist": h.session.Wishlist().Snapshot(),
	})
}

// Checkout and Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Address       order.Address `json:"address"`
		PaymentMethod string        `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	placed, err := h.checkout.PlaceOrder(r.Context(), userID, h.session.Cart(), checkout.PlaceOrderInput{
		Address:       req.Address,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr):
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "invalid address",
				"fields": verr.Fields,
			})
		case errors.Is(err, checkout.ErrEmptyCart):
			respondJSONError(w, "cart is empty", http.StatusBadRequest)
		default:
			respondJSONError(w, "failed to place order", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, placed)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orders, err := h.store.GetOrdersForUser(r.Context(), userID)
	if err != nil {
		respondJSONError(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")

	o, err := h.fetchOwnOrder(w, r, id)
	if err != nil {
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/orders/"), "/cancel")

	if _, err := h.fetchOwnOrder(w, r, id); err != nil {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	description := "Order cancelled"
	if req.Reason != "" {
		description = "Order cancelled: " + req.Reason
	}

	if err := h.store.UpdateOrderStatus(r.Context(), id, order.StatusCancelled, description); err != nil {
		if errors.Is(err, order.ErrInvalidStatus) || errors.Is(err, order.ErrOrderDelivered) || errors.Is(err, order.ErrOrderCancelled) {
			respondJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		respondJSONError(w, "failed to cancel order", http.StatusInternalServerError)
		return
	}

	updated, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		respondJSONError(w, "failed to fetch order", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// fetchOwnOrder loads the order and enforces that it belongs to the
// requesting user. On failure it writes the error response and returns
// a non-nil error so the caller can bail out.
func (h *Handlers) fetchOwnOrder(w http.ResponseWriter, r *http.Request, id string) (*order.Order, error) {
	o, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSONError(w, "order not found", http.StatusNotFound)
			return nil, err
		}
		respondJSONError(w, "failed to fetch order", http.StatusInternalServerError)
		return nil, err
	}

	if o.UserID != middleware.GetUserID(r.Context()) {
		respondJSONError(w, "forbidden", http.StatusForbidden)
		return nil, errors.New("forbidden")
	}
	return o, nil
}

// Session Handlers

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	id := h.session.Identity()
	respondJSON(w, http.StatusOK, map[string]any{
		"identity": id,
		"guest":    id.IsGuest(),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
