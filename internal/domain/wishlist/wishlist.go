package wishlist

import "errors"

var ErrNotInWishlist = errors.New("product not in wishlist")

// Entry is a saved-for-later product reference. The price is a snapshot of
// the price at save time, used when the entry moves to the cart.
type Entry struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	ImageRef  string `json:"image_ref,omitempty"`
}

// Union folds extra entries into base with set semantics keyed by product
// id. Existing metadata wins. Used by session reconciliation.
func Union(base, extra []Entry) []Entry {
	out := make([]Entry, len(base))
	copy(out, base)
	for _, in := range extra {
		if in.ProductID == "" {
			continue
		}
		present := false
		for _, e := range out {
			if e.ProductID == in.ProductID {
				present = true
				break
			}
		}
		if !present {
			out = append(out, in)
		}
	}
	return out
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
