package cart

import "sync"

// Observer is invoked with a snapshot copy after every user-level mutation.
// Hydration via ReplaceState does not notify; callers that install state and
// want it persisted trigger the sync themselves.
type Observer func(Cart)

// Engine owns the authoritative in-memory cart for one session. Mutations
// apply synchronously; persistence happens behind the observer.
type Engine struct {
	mu       sync.Mutex
	cart     Cart
	observer Observer
}

func NewEngine() *Engine {
	return &Engine{cart: Empty()}
}

func (e *Engine) SetObserver(fn Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = fn
}

type AddLineInput struct {
	ProductID  string
	VariantKey string
	Name       string
	UnitPrice  int
	Quantity   int
	ImageRef   string
}

// AddLine merges into an existing line with the same (product, variant) key
// or appends a new one. The UI validates inputs first; the engine still
// rejects garbage so a bad caller cannot corrupt the totals.
func (e *Engine) AddLine(in AddLineInput) (Cart, error) {
	if in.ProductID == "" {
		return e.Snapshot(), ErrInvalidProduct
	}
	if in.Quantity < 1 {
		return e.Snapshot(), ErrInvalidQuantity
	}
	if in.UnitPrice < 0 {
		return e.Snapshot(), ErrInvalidPrice
	}

	e.mu.Lock()
	key := Key{ProductID: in.ProductID, VariantKey: in.VariantKey}
	found := false
	for i := range e.cart.Lines {
		if e.cart.Lines[i].Key() == key {
			e.cart.Lines[i].Quantity += in.Quantity
			found = true
			break
		}
	}
	if !found {
		e.cart.Lines = append(e.cart.Lines, Line{
			ProductID:  in.ProductID,
			VariantKey: in.VariantKey,
			Name:       in.Name,
			UnitPrice:  in.UnitPrice,
			Quantity:   in.Quantity,
			ImageRef:   in.ImageRef,
		})
	}
	e.cart.recompute()
	snap := e.cart.Clone()
	observer := e.observer
	e.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
	return snap, nil
}

// RemoveLine deletes the matching line. Removing an absent line is a no-op,
// not an error.
func (e *Engine) RemoveLine(productID, variantKey string) Cart {
	e.mu.Lock()
	key := Key{ProductID: productID, VariantKey: variantKey}
	changed := false
	kept := e.cart.Lines[:0]
	for _, l := range e.cart.Lines {
		if l.Key() == key {
			changed = true
			continue
		}
		kept = append(kept, l)
	}
	e.cart.Lines = kept
	e.cart.recompute()
	snap := e.cart.Clone()
	observer := e.observer
	e.mu.Unlock()

	if changed && observer != nil {
		observer(snap)
	}
	return snap
}

// SetQuantity overwrites a line's quantity; anything below one removes the
// line instead.
func (e *Engine) SetQuantity(productID, variantKey string, quantity int) Cart {
	if quantity < 1 {
		return e.RemoveLine(productID, variantKey)
	}

	e.mu.Lock()
	key := Key{ProductID: productID, VariantKey: variantKey}
	changed := false
	for i := range e.cart.Lines {
		if e.cart.Lines[i].Key() == key {
			e.cart.Lines[i].Quantity = quantity
			changed = true
			break
		}
	}
	e.cart.recompute()
	snap := e.cart.Clone()
	observer := e.observer
	e.mu.Unlock()

	if changed && observer != nil {
		observer(snap)
	}
	return snap
}

// Clear resets to the canonical empty state and notifies, so the backing
// store copy gets cleared too.
func (e *Engine) Clear() Cart {
	e.mu.Lock()
	e.cart = Empty()
	snap := e.cart.Clone()
	observer := e.observer
	e.mu.Unlock()

	if observer != nil {
		observer(snap)
	}
	return snap
}

// ReplaceState installs a full snapshot atomically, bypassing the merge
// logic. Only reconciliation and hydration use it. Totals are recomputed on
// the way in so a stale persisted copy cannot violate the invariant.
func (e *Engine) ReplaceState(snapshot Cart) Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	installed := snapshot.Clone()
	if installed.Lines == nil {
		installed.Lines = []Line{}
	}
	installed.recompute()
	e.cart = installed
	return e.cart.Clone()
}

func (e *Engine) Snapshot() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone()
}
