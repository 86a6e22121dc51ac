package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
)

func testPricing() Pricing {
	return Pricing{
		TaxRate:               0.075,
		FreeShippingThreshold: 50000,
		FlatShippingFee:       2500,
	}
}

func TestQuote_BelowFreeShippingThreshold(t *testing.T) {
	p := testPricing()

	totals := p.Quote([]models.CartItem{
		{UnitPrice: 10000, Quantity: 2},
		{UnitPrice: 5000, Quantity: 1},
	})

	assert.Equal(t, 25000.0, totals.Subtotal)
	assert.Equal(t, 1875.0, totals.Tax)
	assert.Equal(t, 2500.0, totals.Shipping)
	assert.Equal(t, 29375.0, totals.Total)
}

func TestQuote_AtFreeShippingThreshold(t *testing.T) {
	p := testPricing()

	totals := p.Quote([]models.CartItem{{UnitPrice: 50000, Quantity: 1}})

	assert.Equal(t, 50000.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 3750.0, totals.Tax)
	assert.Equal(t, 53750.0, totals.Total)
}

func TestQuote_AboveFreeShippingThreshold(t *testing.T) {
	p := testPricing()

	totals := p.Quote([]models.CartItem{{UnitPrice: 20000, Quantity: 3}})

	assert.Equal(t, 60000.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 4500.0, totals.Tax)
	assert.Equal(t, 64500.0, totals.Total)
}

func TestQuote_TaxRoundedToCents(t *testing.T) {
	p := testPricing()

	// 1234.5 * 0.075 = 92.5875 -> 92.59
	totals := p.Quote([]models.CartItem{{UnitPrice: 1234.5, Quantity: 1}})

	assert.Equal(t, 92.59, totals.Tax)
	assert.Equal(t, 1234.5+92.59+2500, totals.Total)
}

func TestQuote_EmptyCart(t *testing.T) {
	p := testPricing()

	totals := p.Quote(nil)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Tax)
	assert.Equal(t, 2500.0, totals.Shipping)
	assert.Equal(t, 2500.0, totals.Total)
}
