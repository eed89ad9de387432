package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/shopmart/internal/api/middleware"
	"github.com/example/shopmart/internal/auth"
)

func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(jwtService)
	optionalAuth := middleware.OptionalAuthMiddleware(jwtService)

	// Auth
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Register(w, r)
	})

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Login(w, r)
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Logout(w, r)
	})

	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Refresh(w, r)
	})

	mux.Handle("/auth/me", requireAuth(http.HandlerFunc(authHandlers.Me)))

	// Catalog
	mux.HandleFunc("/categories", handlers.GetCategories)

	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.GetProducts(w, r)
	})

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.GetProduct(w, r)
	})

	// Cart — works for both guest and signed-in sessions
	mux.Handle("/cart", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCart(w, r)
		case http.MethodDelete:
			handlers.ClearCart(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/cart/items", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.AddToCart(w, r)
	})))

	mux.Handle("/cart/items/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			handlers.UpdateCartItem(w, r)
		case http.MethodDelete:
			handlers.RemoveFromCart(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Wishlist
	mux.Handle("/wishlist", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.GetWishlist(w, r)
	})))

	mux.Handle("/wishlist/items", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.AddToWishlist(w, r)
	})))

	mux.Handle("/wishlist/items/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/move-to-cart") && r.Method == http.MethodPost:
			handlers.MoveToCart(w, r)
		case r.Method == http.MethodDelete:
			handlers.RemoveFromWishlist(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Checkout and orders — signed-in only
	mux.Handle("/checkout", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.PlaceOrder(w, r)
	})))

	mux.Handle("/orders", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.GetOrders(w, r)
	})))

	mux.Handle("/orders/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/cancel") && r.Method == http.MethodPost:
			handlers.CancelOrder(w, r)
		case r.Method == http.MethodGet:
			handlers.GetOrder(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Session state (identity + guest flag)
	mux.Handle("/session", optionalAuth(http.HandlerFunc(handlers.GetSession)))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
