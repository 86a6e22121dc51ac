package services

import (
	"math"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
)

// Pricing holds the checkout pricing policy. The VAT rate, free-shipping
// threshold and flat shipping fee are configuration, not constants.
type Pricing struct {
	TaxRate               float64
	FreeShippingThreshold float64
	FlatShippingFee       float64
}

// Totals is the computed price breakdown for a cart, in major currency units.
type Totals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// Quote computes the totals for the given cart items. Quantities are assumed
// to be already clamped.
func (p Pricing) Quote(items []models.CartItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	subtotal = round2(subtotal)

	tax := round2(subtotal * p.TaxRate)

	shipping := p.FlatShippingFee
	if subtotal >= p.FreeShippingThreshold {
		shipping = 0
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    round2(subtotal + tax + shipping),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
