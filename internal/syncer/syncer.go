// Package syncer propagates cart and wishlist mutations to the backing
// store without blocking the caller. All writes for a session flow through
// one worker goroutine, so the store converges to the last state in
// mutation order; there is no debouncing and no parallel writers that
// could let a stale write clobber a newer one.
package syncer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/domain/wishlist"
	"github.com/example/shopmart/internal/infrastructure/store"
	"github.com/example/shopmart/internal/snapcache"
)

type jobKind int

const (
	jobCart jobKind = iota
	jobWishlist
	jobFlush
)

type job struct {
	kind jobKind
	// userID is captured at enqueue time; an identity change mid-flight
	// must not reroute an older write.
	userID  string
	cart    cart.Cart
	entries []wishlist.Entry
	flushed chan struct{}
}

// Syncer is the per-session sync worker. Persistence is best-effort: a
// failed write is logged and dropped, the in-memory state stays
// authoritative for the active session.
type Syncer struct {
	store store.StoreInterface
	cache snapcache.Cache
	jobs  chan job
	done  chan struct{}
}

func New(st store.StoreInterface, cache snapcache.Cache) *Syncer {
	s := &Syncer{
		store: st,
		cache: cache,
		jobs:  make(chan job, 64),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// SyncCart enqueues a cart snapshot. Empty userID means guest, routed to
// the local snapshot cache; otherwise the persistent store.
func (s *Syncer) SyncCart(userID string, snapshot cart.Cart) {
	s.jobs <- job{kind: jobCart, userID: userID, cart: snapshot}
}

// SyncWishlist enqueues a wishlist snapshot, routed like SyncCart.
func (s *Syncer) SyncWishlist(userID string, entries []wishlist.Entry) {
	s.jobs <- job{kind: jobWishlist, userID: userID, entries: entries}
}

// Flush blocks until every previously enqueued write has been applied.
func (s *Syncer) Flush() {
	flushed := make(chan struct{})
	s.jobs <- job{kind: jobFlush, flushed: flushed}
	<-flushed
}

// Close stops the worker after draining pending writes.
func (s *Syncer) Close() {
	close(s.jobs)
	<-s.done
}

func (s *Syncer) run() {
	defer close(s.done)
	for j := range s.jobs {
		switch j.kind {
		case jobCart:
			s.applyCart(j)
		case jobWishlist:
			s.applyWishlist(j)
		case jobFlush:
			close(j.flushed)
		}
	}
}

func (s *Syncer) applyCart(j job) {
	if j.userID == "" {
		data, err := json.Marshal(j.cart)
		if err != nil {
			log.Printf("[Sync] Failed to marshal guest cart: %v", err)
			return
		}
		if err := s.cache.Write(snapcache.CartKey, data); err != nil {
			log.Printf("[Sync] Failed to cache guest cart: %v", err)
		}
		return
	}
	if err := s.store.PutCart(context.Background(), j.userID, j.cart); err != nil {
		log.Printf("[Sync] Failed to persist cart for user %s: %v", j.userID, err)
	}
}

func (s *Syncer) applyWishlist(j job) {
	if j.userID == "" {
		data, err := json.Marshal(j.entries)
		if err != nil {
			log.Printf("[Sync] Failed to marshal guest wishlist: %v", err)
			return
		}
		if err := s.cache.Write(snapcache.WishlistKey, data); err != nil {
			log.Printf("[Sync] Failed to cache guest wishlist: %v", err)
		}
		return
	}
	if err := s.store.PutWishlist(context.Background(), j.userID, j.entries); err != nil {
		log.Printf("[Sync] Failed to persist wishlist for user %s: %v", j.userID, err)
	}
}
