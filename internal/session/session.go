// Package session ties the cart and wishlist engines to an identity and
// reconciles guest state with an account's persisted state on sign-in.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/domain/wishlist"
	"github.com/example/shopmart/internal/infrastructure/store"
	"github.com/example/shopmart/internal/snapcache"
	"github.com/example/shopmart/internal/syncer"
)

// Session is one active storefront session: the engines holding the
// authoritative in-memory state, the sync worker persisting it, and the
// current identity deciding where persistence goes. One instance per
// session, constructed at session start and closed at teardown.
type Session struct {
	mu       sync.Mutex
	identity Identity

	cartEngine     *cart.Engine
	wishlistEngine *wishlist.Engine
	sync           *syncer.Syncer
	store          store.StoreInterface
	cache          snapcache.Cache
}

func New(st store.StoreInterface, cache snapcache.Cache) *Session {
	s := &Session{
		cartEngine:     cart.NewEngine(),
		wishlistEngine: wishlist.NewEngine(),
		sync:           syncer.New(st, cache),
		store:          st,
		cache:          cache,
	}
	s.cartEngine.SetObserver(func(snap cart.Cart) {
		s.sync.SyncCart(s.currentUserID(), snap)
	})
	s.wishlistEngine.SetObserver(func(entries []wishlist.Entry) {
		s.sync.SyncWishlist(s.currentUserID(), entries)
	})
	return s
}

func (s *Session) Cart() *cart.Engine {
	return s.cartEngine
}

func (s *Session) Wishlist() *wishlist.Engine {
	return s.wishlistEngine
}

func (s *Session) Identity() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Attach adopts the provider's current identity and subscribes to its
// changes. Call Start afterwards to hydrate.
func (s *Session) Attach(p Provider) {
	s.mu.Lock()
	s.identity = p.CurrentIdentity()
	s.mu.Unlock()
	p.OnIdentityChange(func(id Identity) {
		if err := s.SetIdentity(context.Background(), id); err != nil {
			log.Printf("[Session] Identity change handling failed: %v", err)
		}
	})
}

// Start hydrates the engines for the current identity: guest sessions load
// the local snapshot, identified sessions reconcile with the store.
func (s *Session) Start(ctx context.Context) error {
	id := s.Identity()
	if id.IsGuest() {
		s.hydrateGuest()
		return nil
	}
	return s.reconcile(ctx, id.UserID)
}

// SetIdentity applies an identity transition. Guest→identified runs the
// one-shot reconciliation merge; identified→guest resets the in-memory
// state and leaves the account's persisted copy untouched.
func (s *Session) SetIdentity(ctx context.Context, id Identity) error {
	s.mu.Lock()
	prev := s.identity
	s.identity = id
	s.mu.Unlock()

	if id.IsGuest() {
		if !prev.IsGuest() {
			s.cartEngine.ReplaceState(cart.Empty())
			s.wishlistEngine.ReplaceState(nil)
			log.Printf("[Session] Signed out, session state reset")
		}
		return nil
	}
	if prev.UserID == id.UserID {
		return nil
	}
	return s.reconcile(ctx, id.UserID)
}

// Close flushes pending sync writes and stops the worker.
func (s *Session) Close() {
	s.sync.Close()
}

// Flush waits for all pending persistence writes. Mainly for tests and
// orderly shutdown.
func (s *Session) Flush() {
	s.sync.Flush()
}

func (s *Session) currentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.UserID
}

// reconcile merges the guest snapshot into the account's persisted state
// and installs the result. If the store fetch fails the merge is aborted:
// in-memory state stays as it was and the guest snapshot is kept so the
// next load can retry.
func (s *Session) reconcile(ctx context.Context, userID string) error {
	persistedCart, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		persistedCart = cart.Empty()
	} else if err != nil {
		return fmt.Errorf("reconciliation aborted, cart fetch failed: %w", err)
	}

	persistedEntries, err := s.store.GetWishlist(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		persistedEntries = nil
	} else if err != nil {
		return fmt.Errorf("reconciliation aborted, wishlist fetch failed: %w", err)
	}

	guestCart := s.readGuestCart()
	guestEntries := s.readGuestWishlist()

	mergedCart := persistedCart
	if len(guestCart.Lines) > 0 {
		mergedCart = cart.Merge(persistedCart, guestCart.Lines)
	}
	mergedEntries := persistedEntries
	if len(guestEntries) > 0 {
		mergedEntries = wishlist.Union(persistedEntries, guestEntries)
	}

	installedCart := s.cartEngine.ReplaceState(mergedCart)
	installedEntries := s.wishlistEngine.ReplaceState(mergedEntries)

	// The merge is one-shot and destructive to the guest copy: persist the
	// merged result and drop the guest keys so a later transition cannot
	// replay them.
	if len(guestCart.Lines) > 0 {
		s.sync.SyncCart(userID, installedCart)
		if err := s.cache.Delete(snapcache.CartKey); err != nil {
			log.Printf("[Session] Failed to clear guest cart snapshot: %v", err)
		}
	}
	if len(guestEntries) > 0 {
		s.sync.SyncWishlist(userID, installedEntries)
		if err := s.cache.Delete(snapcache.WishlistKey); err != nil {
			log.Printf("[Session] Failed to clear guest wishlist snapshot: %v", err)
		}
	}

	log.Printf("[Session] Reconciled session for user %s: %d cart lines, %d wishlist entries",
		userID, len(installedCart.Lines), len(installedEntries))
	return nil
}

// hydrateGuest installs the cached guest snapshot without triggering sync
// writes.
func (s *Session) hydrateGuest() {
	if guestCart := s.readGuestCart(); len(guestCart.Lines) > 0 {
		s.cartEngine.ReplaceState(guestCart)
	}
	if guestEntries := s.readGuestWishlist(); len(guestEntries) > 0 {
		s.wishlistEngine.ReplaceState(guestEntries)
	}
}

func (s *Session) readGuestCart() cart.Cart {
	data, err := s.cache.Read(snapcache.CartKey)
	if err != nil {
		log.Printf("[Session] Failed to read guest cart snapshot: %v", err)
		return cart.Empty()
	}
	if data == nil {
		return cart.Empty()
	}
	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		log.Printf("[Session] Corrupt guest cart snapshot, ignoring: %v", err)
		return cart.Empty()
	}
	return c
}

func (s *Session) readGuestWishlist() []wishlist.Entry {
	data, err := s.cache.Read(snapcache.WishlistKey)
	if err != nil {
		log.Printf("[Session] Failed to read guest wishlist snapshot: %v", err)
		return nil
	}
	if data == nil {
		return nil
	}
	var entries []wishlist.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[Session] Corrupt guest wishlist snapshot, ignoring: %v", err)
		return nil
	}
	return entries
}
