// Package snapcache is the durable on-device key-value store that holds
// guest-session cart and wishlist snapshots between visits.
package snapcache

// Fixed guest keys. They carry no session identifier, so two guest
// profiles sharing one device storage share one snapshot; accepted
// limitation, mirrors the storefront's original behavior.
const (
	CartKey     = "shopmart_cart"
	WishlistKey = "shopmart_wishlist"
)

// Cache failures are logged by callers, never surfaced to the user; a
// broken cache only costs cross-session continuity.
type Cache interface {
	// Read returns (nil, nil) when the key is absent.
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Delete(key string) error
}
