package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shopmart/internal/infrastructure/store"
	"github.com/example/shopmart/internal/session"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Tokens is the credential pair returned on sign-in and refresh.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service handles account registration and sign-in. It implements
// session.Provider: the session subscribes to identity changes and runs
// its reconciliation on every sign-in.
type Service struct {
	store store.StoreInterface
	jwt   *JWTService

	mu        sync.Mutex
	identity  session.Identity
	listeners []func(session.Identity)
}

func NewService(st store.StoreInterface, jwtService *JWTService) *Service {
	return &Service{
		store: st,
		jwt:   jwtService,
	}
}

// Register creates a new account. It does not sign the user in.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*store.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &store.User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.PutUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// SignIn verifies the credentials, issues a token pair and switches the
// current identity to the signed-in user.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if !CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	s.setIdentity(session.Identity{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	})
	return tokens, nil
}

// SignOut switches the current identity back to guest.
func (s *Service) SignOut() {
	s.setIdentity(session.Guest)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return s.issueTokens(u)
}

func (s *Service) issueTokens(u *store.User) (*Tokens, error) {
	access, expiresAt, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, _, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// CurrentIdentity returns the identity of the most recent sign-in, or
// guest.
func (s *Service) CurrentIdentity() session.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// OnIdentityChange registers a callback invoked on every sign-in and
// sign-out.
func (s *Service) OnIdentityChange(fn func(session.Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) setIdentity(id session.Identity) {
	s.mu.Lock()
	s.identity = id
	listeners := make([]func(session.Identity), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
}
