package checkout

import "math"

// Pricing holds the checkout rate card. Amounts are in the smallest
// currency unit; this is the single place order totals are computed.
type Pricing struct {
	TaxRate               float64
	FreeShippingThreshold int
	FlatShippingFee       int
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               0.18,
		FreeShippingThreshold: 499,
		FlatShippingFee:       50,
	}
}

type Quote struct {
	Subtotal int `json:"subtotal"`
	Tax      int `json:"tax"`
	Shipping int `json:"shipping"`
	Total    int `json:"total"`
}

func (p Pricing) Quote(subtotal int) Quote {
	tax := int(math.Round(float64(subtotal) * p.TaxRate))
	shipping := p.FlatShippingFee
	if subtotal > p.FreeShippingThreshold {
		shipping = 0
	}
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
