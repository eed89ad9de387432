package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/domain/wishlist"
	"github.com/example/shopmart/internal/infrastructure/store"
	"github.com/example/shopmart/internal/infrastructure/store/mocks"
	"github.com/example/shopmart/internal/snapcache"
)

func newTestSession(t *testing.T) (*Session, *mocks.MockStore, *snapcache.MemoryCache) {
	t.Helper()
	st := mocks.NewMockStore()
	cache := snapcache.NewMemoryCache()
	s := New(st, cache)
	t.Cleanup(s.Close)
	return s, st, cache
}

func seedGuestCart(t *testing.T, cache *snapcache.MemoryCache, lines ...cart.Line) {
	t.Helper()
	data, err := json.Marshal(cart.Merge(cart.Empty(), lines))
	require.NoError(t, err)
	require.NoError(t, cache.Write(snapcache.CartKey, data))
}

func seedGuestWishlist(t *testing.T, cache *snapcache.MemoryCache, entries ...wishlist.Entry) {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, cache.Write(snapcache.WishlistKey, data))
}

// ============================================
// Reconciliation Tests
// ============================================

func TestSession_SignIn_MergesGuestCartIntoPersisted(t *testing.T) {
	s, st, cache := newTestSession(t)
	seedGuestCart(t, cache, cart.Line{ProductID: "A", UnitPrice: 100, Quantity: 2})
	st.SetCart("user-1", cart.Merge(cart.Empty(), []cart.Line{
		{ProductID: "A", UnitPrice: 100, Quantity: 1},
		{ProductID: "B", UnitPrice: 200, Quantity: 1},
	}))

	require.NoError(t, s.SetIdentity(context.Background(), Identity{UserID: "user-1"}))
	s.Flush()

	snap := s.Cart().Snapshot()
	require.Len(t, snap.Lines, 2)
	a, ok := snap.Find(cart.Key{ProductID: "A"})
	require.True(t, ok)
	assert.Equal(t, 3, a.Quantity)
	b, ok := snap.Find(cart.Key{ProductID: "B"})
	require.True(t, ok)
	assert.Equal(t, 1, b.Quantity)

	// Guest snapshot is consumed by the merge.
	data, err := cache.Read(snapcache.CartKey)
	require.NoError(t, err)
	assert.Nil(t, data)

	// Merged result was persisted to the account.
	stored, ok := st.StoredCart("user-1")
	require.True(t, ok)
	assert.Equal(t, 4, stored.TotalQuantity)
}

func TestSession_SignIn_MergesGuestWishlistWithSetUnion(t *testing.T) {
	s, st, cache := newTestSession(t)
	seedGuestWishlist(t, cache,
		wishlist.Entry{ProductID: "A", Price: 100},
		wishlist.Entry{ProductID: "C", Price: 300},
	)
	st.SetWishlist("user-1", []wishlist.Entry{{ProductID: "A", Price: 100}, {ProductID: "B", Price: 200}})

	require.NoError(t, s.SetIdentity(context.Background(), Identity{UserID: "user-1"}))
	s.Flush()

	entries := s.Wishlist().Snapshot()
	assert.Len(t, entries, 3)

	data, err := cache.Read(snapcache.WishlistKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSession_SignIn_NoPersistedStateTreatedAsEmpty(t *testing.T) {
	s, _, cache := newTestSession(t)
	seedGuestCart(t, cache, cart.Line{ProductID: "A", UnitPrice: 100, Quantity: 2})

	require.NoError(t, s.SetIdentity(context.Background(), Identity{UserID: "user-new"}))

	snap := s.Cart().Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.TotalQuantity)
}

func TestSession_SignIn_EmptyGuestSnapshotLeavesCacheAndStoreAlone(t *testing.T) {
	s, st, _ := newTestSession(t)
	st.SetCart("user-1", cart.Merge(cart.Empty(), []cart.Line{{ProductID: "B", UnitPrice: 200, Quantity: 1}}))

	require.NoError(t, s.SetIdentity(context.Background(), Identity{UserID: "user-1"}))
	s.Flush()

	assert.Equal(t, 1, s.Cart().Snapshot().TotalQuantity)
	// Nothing to merge, so nothing was written back.
	assert.Empty(t, st.PutCartCalls)
}

func TestSession_SignIn_FetchFailureKeepsGuestSnapshot(t *testing.T) {
	s, st, cache := newTestSession(t)
	seedGuestCart(t, cache, cart.Line{ProductID: "A", UnitPrice: 100, Quantity: 2})
	st.GetCartErr = store.ErrUnavailable

	err := s.SetIdentity(context.Background(), Identity{UserID: "user-1"})

	require.ErrorIs(t, err, store.ErrUnavailable)
	// In-memory state untouched, guest snapshot kept for a retry.
	assert.True(t, s.Cart().Snapshot().IsEmpty())
	data, readErr := cache.Read(snapcache.CartKey)
	require.NoError(t, readErr)
	assert.NotNil(t, data)
}

func TestSession_SignIn_CorruptGuestSnapshotIgnored(t *testing.T) {
	s, _, cache := newTestSession(t)
	require.NoError(t, cache.Write(snapcache.CartKey, []byte("not json")))

	require.NoError(t, s.SetIdentity(context.Background(), Identity{UserID: "user-1"}))

	assert.True(t, s.Cart().Snapshot().IsEmpty())
}

// ============================================
// Sign-out Tests
// ============================================

func TestSession_SignOut_ResetsMemoryKeepsPersistedCopy(t *testing.T) {
	s, st, _ := newTestSession(t)
	st.SetCart("user-1", cart.Merge(cart.Empty(), []cart.Line{{ProductID: "B", UnitPrice: 200, Quantity: 2}}))
	require.NoError(t, s.SetIdentity(context.Background(), Identity{UserID: "user-1"}))
	require.Equal(t, 2, s.Cart().Snapshot().TotalQuantity)

	require.NoError(t, s.SetIdentity(context.Background(), Guest))
	s.Flush()

	assert.True(t, s.Cart().Snapshot().IsEmpty())
	assert.Empty(t, s.Wishlist().Snapshot())
	// The account's persisted copy survives for the next sign-in.
	stored, ok := st.StoredCart("user-1")
	require.True(t, ok)
	assert.Equal(t, 2, stored.TotalQuantity)
}

// ============================================
// Guest Hydration Tests
// ============================================

func TestSession_Start_GuestHydratesFromCacheWithoutSyncWrites(t *testing.T) {
	s, st, cache := newTestSession(t)
	seedGuestCart(t, cache, cart.Line{ProductID: "A", UnitPrice: 500, Quantity: 1})
	seedGuestWishlist(t, cache, wishlist.Entry{ProductID: "W", Price: 50})

	require.NoError(t, s.Start(context.Background()))
	s.Flush()

	assert.Equal(t, 500, s.Cart().Snapshot().TotalAmount)
	assert.Len(t, s.Wishlist().Snapshot(), 1)
	assert.Empty(t, st.PutCartCalls)
}

// ============================================
// Mutation Routing Tests
// ============================================

func TestSession_GuestMutationsLandInCache(t *testing.T) {
	s, st, cache := newTestSession(t)

	_, err := s.Cart().AddLine(cart.AddLineInput{ProductID: "P1", Name: "P1", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)
	s.Flush()

	data, readErr := cache.Read(snapcache.CartKey)
	require.NoError(t, readErr)
	require.NotNil(t, data)
	assert.Empty(t, st.PutCartCalls)
}

func TestSession_IdentifiedMutationsLandInStore(t *testing.T) {
	s, st, _ := newTestSession(t)
	require.NoError(t, s.SetIdentity(context.Background(), Identity{UserID: "user-1"}))

	_, err := s.Cart().AddLine(cart.AddLineInput{ProductID: "P1", Name: "P1", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)
	s.Flush()

	require.Len(t, st.PutCartCalls, 1)
	assert.Equal(t, "user-1", st.PutCartCalls[0].UserID)
}

// ============================================
// End-to-end Scenario
// ============================================

func TestSession_GuestBrowsingThenSignIn(t *testing.T) {
	s, st, cache := newTestSession(t)
	st.SetCart("U1", cart.Merge(cart.Empty(), []cart.Line{
		{ProductID: "P2", Name: "P2", UnitPrice: 300, Quantity: 2},
	}))

	// Guest adds P1.
	snap, err := s.Cart().AddLine(cart.AddLineInput{ProductID: "P1", Name: "P1", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 500, snap.TotalAmount)
	s.Flush()

	// Sign in as U1.
	require.NoError(t, s.SetIdentity(context.Background(), Identity{UserID: "U1", Email: "u1@example.com"}))
	s.Flush()

	snap = s.Cart().Snapshot()
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, 1100, snap.TotalAmount)
	assert.Equal(t, 3, snap.TotalQuantity)

	// Guest snapshot consumed, merged cart persisted under U1.
	data, readErr := cache.Read(snapcache.CartKey)
	require.NoError(t, readErr)
	assert.Nil(t, data)
	stored, ok := st.StoredCart("U1")
	require.True(t, ok)
	assert.Equal(t, 1100, stored.TotalAmount)
}

// ============================================
// Provider Attachment Tests
// ============================================

type fakeProvider struct {
	current   Identity
	callbacks []func(Identity)
}

func (p *fakeProvider) CurrentIdentity() Identity { return p.current }
func (p *fakeProvider) OnIdentityChange(fn func(Identity)) {
	p.callbacks = append(p.callbacks, fn)
}

func (p *fakeProvider) emit(id Identity) {
	p.current = id
	for _, fn := range p.callbacks {
		fn(id)
	}
}

func TestSession_AttachFollowsProviderChanges(t *testing.T) {
	s, st, _ := newTestSession(t)
	st.SetCart("user-1", cart.Merge(cart.Empty(), []cart.Line{{ProductID: "B", UnitPrice: 200, Quantity: 1}}))
	p := &fakeProvider{}

	s.Attach(p)
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Identity().IsGuest())

	p.emit(Identity{UserID: "user-1"})
	assert.Equal(t, "user-1", s.Identity().UserID)
	assert.Equal(t, 1, s.Cart().Snapshot().TotalQuantity)

	p.emit(Guest)
	assert.True(t, s.Identity().IsGuest())
	assert.True(t, s.Cart().Snapshot().IsEmpty())
}
