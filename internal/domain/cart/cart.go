package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrInvalidPrice    = errors.New("unit price must not be negative")
)

// Key identifies a logical cart line. Two lines with the same key are the
// same entry and get merged, never duplicated.
type Key struct {
	ProductID  string
	VariantKey string
}

type Line struct {
	ProductID  string `json:"product_id"`
	VariantKey string `json:"variant_key,omitempty"`
	Name       string `json:"name"`
	UnitPrice  int    `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	LineTotal  int    `json:"line_total"`
	ImageRef   string `json:"image_ref,omitempty"`
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, VariantKey: l.VariantKey}
}

// Cart is the full cart state. TotalQuantity and TotalAmount are derived
// from Lines after every mutation, never set independently.
type Cart struct {
	Lines         []Line `json:"lines"`
	TotalQuantity int    `json:"total_quantity"`
	TotalAmount   int    `json:"total_amount"`
}

func Empty() Cart {
	return Cart{Lines: []Line{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) Find(key Key) (Line, bool) {
	for _, l := range c.Lines {
		if l.Key() == key {
			return l, true
		}
	}
	return Line{}, false
}

// Clone returns a deep copy so callers can hold a snapshot while the
// engine keeps mutating its own state.
func (c Cart) Clone() Cart {
	out := Cart{
		Lines:         make([]Line, len(c.Lines)),
		TotalQuantity: c.TotalQuantity,
		TotalAmount:   c.TotalAmount,
	}
	copy(out.Lines, c.Lines)
	return out
}

// Merge folds extra lines into base using the same rule as Engine.AddLine:
// matching keys add quantities, new keys append. Used by session
// reconciliation to combine a guest cart with a persisted one.
func Merge(base Cart, extra []Line) Cart {
	merged := base.Clone()
	for _, in := range extra {
		if in.Quantity < 1 {
			continue
		}
		found := false
		for i := range merged.Lines {
			if merged.Lines[i].Key() == in.Key() {
				merged.Lines[i].Quantity += in.Quantity
				merged.Lines[i].LineTotal = merged.Lines[i].UnitPrice * merged.Lines[i].Quantity
				found = true
				break
			}
		}
		if !found {
			line := in
			line.LineTotal = line.UnitPrice * line.Quantity
			merged.Lines = append(merged.Lines, line)
		}
	}
	merged.recompute()
	return merged
}

// recompute rebuilds the derived totals from scratch rather than
// incrementally, so they can never drift from the lines.
func (c *Cart) recompute() {
	qty, amount := 0, 0
	for i := range c.Lines {
		c.Lines[i].LineTotal = c.Lines[i].UnitPrice * c.Lines[i].Quantity
		qty += c.Lines[i].Quantity
		amount += c.Lines[i].LineTotal
	}
	c.TotalQuantity = qty
	c.TotalAmount = amount
}
