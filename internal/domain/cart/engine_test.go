package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addLine(t *testing.T, e *Engine, productID, variant string, price, qty int) Cart {
	t.Helper()
	snap, err := e.AddLine(AddLineInput{
		ProductID:  productID,
		VariantKey: variant,
		Name:       "Product " + productID,
		UnitPrice:  price,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return snap
}

// assertTotals checks the derived-totals invariant against the lines.
func assertTotals(t *testing.T, c Cart) {
	t.Helper()
	qty, amount := 0, 0
	for _, l := range c.Lines {
		assert.Equal(t, l.UnitPrice*l.Quantity, l.LineTotal)
		qty += l.Quantity
		amount += l.LineTotal
	}
	assert.Equal(t, qty, c.TotalQuantity)
	assert.Equal(t, amount, c.TotalAmount)
}

// ============================================
// AddLine Tests
// ============================================

func TestEngine_AddLine_NewLine(t *testing.T) {
	e := NewEngine()

	snap := addLine(t, e, "prod-1", "", 500, 2)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 1000, snap.Lines[0].LineTotal)
	assert.Equal(t, 2, snap.TotalQuantity)
	assert.Equal(t, 1000, snap.TotalAmount)
}

func TestEngine_AddLine_MergesSameKey(t *testing.T) {
	e := NewEngine()

	addLine(t, e, "prod-1", "size-m", 500, 1)
	snap := addLine(t, e, "prod-1", "size-m", 500, 1)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 1000, snap.Lines[0].LineTotal)
	assertTotals(t, snap)
}

func TestEngine_AddLine_DifferentVariantsAreDifferentLines(t *testing.T) {
	e := NewEngine()

	addLine(t, e, "prod-1", "size-m", 500, 1)
	snap := addLine(t, e, "prod-1", "size-l", 500, 1)

	assert.Len(t, snap.Lines, 2)
	assertTotals(t, snap)
}

func TestEngine_AddLine_InvalidInput(t *testing.T) {
	e := NewEngine()

	_, err := e.AddLine(AddLineInput{ProductID: "", UnitPrice: 100, Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = e.AddLine(AddLineInput{ProductID: "prod-1", UnitPrice: 100, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = e.AddLine(AddLineInput{ProductID: "prod-1", UnitPrice: -1, Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	assert.True(t, e.Snapshot().IsEmpty())
}

func TestEngine_AddLine_ZeroPriceAllowed(t *testing.T) {
	e := NewEngine()

	snap := addLine(t, e, "prod-free", "", 0, 3)

	assert.Equal(t, 3, snap.TotalQuantity)
	assert.Equal(t, 0, snap.TotalAmount)
}

// ============================================
// RemoveLine / SetQuantity Tests
// ============================================

func TestEngine_RemoveLine(t *testing.T) {
	e := NewEngine()
	addLine(t, e, "prod-1", "", 500, 2)
	addLine(t, e, "prod-2", "", 300, 1)

	snap := e.RemoveLine("prod-1", "")

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "prod-2", snap.Lines[0].ProductID)
	assertTotals(t, snap)
}

func TestEngine_RemoveLine_AbsentIsNoop(t *testing.T) {
	e := NewEngine()
	addLine(t, e, "prod-1", "", 500, 2)

	snap := e.RemoveLine("prod-9", "")

	assert.Len(t, snap.Lines, 1)
	assertTotals(t, snap)
}

func TestEngine_SetQuantity(t *testing.T) {
	e := NewEngine()
	addLine(t, e, "prod-1", "", 500, 2)

	snap := e.SetQuantity("prod-1", "", 5)

	assert.Equal(t, 5, snap.Lines[0].Quantity)
	assert.Equal(t, 2500, snap.TotalAmount)
	assertTotals(t, snap)
}

func TestEngine_SetQuantity_BelowOneRemoves(t *testing.T) {
	e := NewEngine()
	addLine(t, e, "prod-1", "", 500, 2)

	snap := e.SetQuantity("prod-1", "", 0)

	assert.True(t, snap.IsEmpty())
	assert.Equal(t, 0, snap.TotalQuantity)
	assert.Equal(t, 0, snap.TotalAmount)
}

func TestEngine_Clear(t *testing.T) {
	e := NewEngine()
	addLine(t, e, "prod-1", "", 500, 2)
	addLine(t, e, "prod-2", "", 300, 1)

	snap := e.Clear()

	assert.True(t, snap.IsEmpty())
	assert.NotNil(t, snap.Lines)
}

// ============================================
// Invariant Tests
// ============================================

func TestEngine_TotalsInvariantAcrossSequence(t *testing.T) {
	e := NewEngine()

	assertTotals(t, addLine(t, e, "prod-1", "", 500, 2))
	assertTotals(t, addLine(t, e, "prod-2", "red", 300, 1))
	assertTotals(t, addLine(t, e, "prod-1", "", 500, 3))
	assertTotals(t, e.SetQuantity("prod-2", "red", 4))
	assertTotals(t, e.RemoveLine("prod-1", ""))
	assertTotals(t, e.SetQuantity("prod-2", "red", 0))
	assertTotals(t, e.Clear())
}

// ============================================
// ReplaceState / Snapshot Tests
// ============================================

func TestEngine_ReplaceState_RecomputesTotals(t *testing.T) {
	e := NewEngine()

	// Stale persisted totals must not survive installation.
	snap := e.ReplaceState(Cart{
		Lines: []Line{
			{ProductID: "prod-1", UnitPrice: 500, Quantity: 2},
			{ProductID: "prod-2", UnitPrice: 300, Quantity: 1},
		},
		TotalQuantity: 99,
		TotalAmount:   99999,
	})

	assert.Equal(t, 3, snap.TotalQuantity)
	assert.Equal(t, 1300, snap.TotalAmount)
	assertTotals(t, snap)
}

func TestEngine_ReplaceState_NilLinesBecomeEmpty(t *testing.T) {
	e := NewEngine()

	snap := e.ReplaceState(Cart{})

	assert.NotNil(t, snap.Lines)
	assert.True(t, snap.IsEmpty())
}

func TestEngine_Snapshot_IsACopy(t *testing.T) {
	e := NewEngine()
	addLine(t, e, "prod-1", "", 500, 2)

	snap := e.Snapshot()
	snap.Lines[0].Quantity = 100

	assert.Equal(t, 2, e.Snapshot().Lines[0].Quantity)
}

// ============================================
// Observer Tests
// ============================================

func TestEngine_ObserverSeesEveryMutation(t *testing.T) {
	e := NewEngine()
	var seen []Cart
	e.SetObserver(func(c Cart) { seen = append(seen, c) })

	addLine(t, e, "prod-1", "", 500, 1)
	e.SetQuantity("prod-1", "", 3)
	e.RemoveLine("prod-1", "")
	e.Clear()

	require.Len(t, seen, 4)
	assert.Equal(t, 3, seen[1].TotalQuantity)
	assert.True(t, seen[2].IsEmpty())
}

func TestEngine_ObserverNotCalledForNoopOrHydration(t *testing.T) {
	e := NewEngine()
	calls := 0
	e.SetObserver(func(Cart) { calls++ })

	e.RemoveLine("absent", "")
	e.SetQuantity("absent", "", 5)
	e.ReplaceState(Cart{Lines: []Line{{ProductID: "prod-1", UnitPrice: 100, Quantity: 1}}})

	assert.Equal(t, 0, calls)
}

// ============================================
// Merge Tests
// ============================================

func TestMerge_QuantitiesAdd(t *testing.T) {
	base := Merge(Empty(), []Line{
		{ProductID: "A", UnitPrice: 100, Quantity: 1},
		{ProductID: "B", UnitPrice: 200, Quantity: 1},
	})

	merged := Merge(base, []Line{{ProductID: "A", UnitPrice: 100, Quantity: 2}})

	require.Len(t, merged.Lines, 2)
	a, ok := merged.Find(Key{ProductID: "A"})
	require.True(t, ok)
	assert.Equal(t, 3, a.Quantity)
	assertTotals(t, merged)
}

func TestMerge_SkipsInvalidQuantities(t *testing.T) {
	merged := Merge(Empty(), []Line{{ProductID: "A", UnitPrice: 100, Quantity: 0}})

	assert.True(t, merged.IsEmpty())
}
