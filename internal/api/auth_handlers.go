package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/example/shopmart/internal/api/middleware"
	"github.com/example/shopmart/internal/auth"
	"github.com/example/shopmart/internal/infrastructure/store"
	"github.com/example/shopmart/internal/session"
)

// AuthHandlers handles authentication-related HTTP requests.
type AuthHandlers struct {
	authService *auth.Service
	sess        *session.Session
	store       store.StoreInterface
}

func NewAuthHandlers(authService *auth.Service, sess *session.Session, st store.StoreInterface) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		sess:        sess,
		store:       st,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Register handles account creation. The new account is not signed in;
// the client logs in afterwards, which triggers the guest-state merge.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		respondJSONError(w, "email is required", http.StatusBadRequest)
		return
	}

	u, err := h.authService.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			respondJSONError(w, "email already registered", http.StatusConflict)
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondJSONError(w, "password must be at least 8 characters", http.StatusBadRequest)
		default:
			respondJSONError(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	})
}

// Login verifies credentials and signs the session in. The identity
// change runs the session reconciliation: guest cart and wishlist are
// merged into the account's persisted state.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tokens, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondJSONError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		respondJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.setAuthCookies(w, r, tokens)

	respondJSON(w, http.StatusOK, map[string]any{
		"identity": h.sess.Identity(),
		"tokens":   tokens,
	})
}

// Logout signs the session out. Engine state resets to an empty guest
// session; the account's persisted copy is untouched.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.SignOut()
	h.clearAuthCookies(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}

// Refresh exchanges the refresh token cookie for a fresh token pair.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		refreshToken = cookie.Value
	} else {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		respondJSONError(w, "no refresh token", http.StatusUnauthorized)
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.clearAuthCookies(w)
		respondJSONError(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	h.setAuthCookies(w, r, tokens)
	respondJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

// Me returns the current authenticated user's profile.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondJSONError(w, "user not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	})
}

// Helper methods

func (h *AuthHandlers) setAuthCookies(w http.ResponseWriter, r *http.Request, tokens *auth.Tokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    tokens.RefreshToken,
		Path:     "/auth/refresh",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandlers) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/auth/refresh",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
