package wishlist

import (
	"sync"

	"github.com/example/shopmart/internal/domain/cart"
)

// Observer is invoked with a snapshot copy after every user-level mutation,
// same contract as the cart engine's observer.
type Observer func([]Entry)

// Engine owns the in-memory wishlist for one session. Set semantics keyed
// by product id; adding a present entry keeps the first write's metadata.
type Engine struct {
	mu       sync.Mutex
	entries  []Entry
	observer Observer
}

func NewEngine() *Engine {
	return &Engine{entries: []Entry{}}
}

func (e *Engine) SetObserver(fn Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = fn
}

// Add appends the entry unless its product id is already present.
func (e *Engine) Add(entry Entry) []Entry {
	if entry.ProductID == "" {
		return e.Snapshot()
	}

	e.mu.Lock()
	for _, existing := range e.entries {
		if existing.ProductID == entry.ProductID {
			snap := cloneEntries(e.entries)
			e.mu.Unlock()
			return snap
		}
	}
	e.entries = append(e.entries, entry)
	snap := cloneEntries(e.entries)
	observer := e.observer
	e.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
	return snap
}

func (e *Engine) Remove(productID string) []Entry {
	e.mu.Lock()
	changed := false
	kept := e.entries[:0]
	for _, entry := range e.entries {
		if entry.ProductID == productID {
			changed = true
			continue
		}
		kept = append(kept, entry)
	}
	e.entries = kept
	snap := cloneEntries(e.entries)
	observer := e.observer
	e.mu.Unlock()

	if changed && observer != nil {
		observer(snap)
	}
	return snap
}

func (e *Engine) Clear() []Entry {
	e.mu.Lock()
	e.entries = []Entry{}
	snap := cloneEntries(e.entries)
	observer := e.observer
	e.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
	return snap
}

func (e *Engine) Contains(productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, entry := range e.entries {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// MoveToCart adds the saved entry to the cart with quantity one and removes
// it from the wishlist. If the cart rejects the entry the wishlist keeps it,
// so the product can never be lost from both sides.
func (e *Engine) MoveToCart(productID string, dst *cart.Engine) error {
	e.mu.Lock()
	var entry Entry
	found := false
	for _, candidate := range e.entries {
		if candidate.ProductID == productID {
			entry = candidate
			found = true
			break
		}
	}
	e.mu.Unlock()
	if !found {
		return ErrNotInWishlist
	}

	if _, err := dst.AddLine(cart.AddLineInput{
		ProductID: entry.ProductID,
		Name:      entry.Name,
		UnitPrice: entry.Price,
		Quantity:  1,
		ImageRef:  entry.ImageRef,
	}); err != nil {
		return err
	}

	e.Remove(productID)
	return nil
}

// ReplaceState installs a full snapshot atomically. Only reconciliation and
// hydration use it; the observer is not notified.
func (e *Engine) ReplaceState(entries []Entry) []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entries == nil {
		entries = []Entry{}
	}
	e.entries = cloneEntries(entries)
	return cloneEntries(e.entries)
}

func (e *Engine) Snapshot() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneEntries(e.entries)
}
