package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Valid(t *testing.T) {
	product, err := NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)

	assert.Equal(t, "MacBook Air M2", product.Name())
	assert.Equal(t, 1450.0, product.Price())
	assert.Equal(t, 100, product.GetQuantity())
	assert.True(t, product.IsActive())
	assert.NotEqual(t, product.ID().String(), "00000000-0000-0000-0000-000000000000")
}

func TestNewProduct_InvalidAttributes(t *testing.T) {
	_, err := NewProduct("", 1450, 100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewProduct("MacBook Air M2", -115, 100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewProduct("MacBook Air M2", 1450, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewProduct_ZeroQuantityStartsInactive(t *testing.T) {
	product, err := NewProduct("MacBook Air M2", 1450, 0)
	require.NoError(t, err)

	assert.False(t, product.IsActive())
}

func TestProduct_BuyModifiesQuantityAndReturnsTotal(t *testing.T) {
	product, err := NewProduct("MacBook Air M2", 1450, 10)
	require.NoError(t, err)

	total, err := product.Buy(3)
	require.NoError(t, err)

	assert.InDelta(t, 3*1450.0, total, 1e-9)
	assert.Equal(t, 7, product.GetQuantity())
	assert.True(t, product.IsActive())
}

func TestProduct_BuyLastUnitDeactivates(t *testing.T) {
	product, err := NewProduct("Widget", 10, 5)
	require.NoError(t, err)

	total, err := product.Buy(5)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, total, 1e-9)
	assert.Equal(t, 0, product.GetQuantity())
	assert.False(t, product.IsActive())
}

func TestProduct_BuyMoreThanStock(t *testing.T) {
	product, err := NewProduct("Widget", 10, 5)
	require.NoError(t, err)

	_, err = product.Buy(6)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	// Failed purchases leave the stock untouched.
	assert.Equal(t, 5, product.GetQuantity())
	assert.True(t, product.IsActive())
}

func TestProduct_BuyNonPositiveQuantity(t *testing.T) {
	product, err := NewProduct("Widget", 10, 5)
	require.NoError(t, err)

	_, err = product.Buy(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = product.Buy(-2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, 5, product.GetQuantity())
}

func TestProduct_BuyInactive(t *testing.T) {
	product, err := NewProduct("Widget", 10, 5)
	require.NoError(t, err)
	product.Deactivate()

	_, err = product.Buy(1)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 5, product.GetQuantity())
}

func TestProduct_BuyAppliesPromotion(t *testing.T) {
	product, err := NewProduct("Bose QuietComfort Earbuds", 250, 500)
	require.NoError(t, err)
	product.SetPromotion(NewSecondHalfPrice("Second Half price!"))

	total, err := product.Buy(2)
	require.NoError(t, err)

	assert.InDelta(t, 375.0, total, 1e-9)
	assert.Equal(t, 498, product.GetQuantity())
}

func TestProduct_RemovePromotionRestoresPlainPricing(t *testing.T) {
	product, err := NewProduct("Bose QuietComfort Earbuds", 250, 500)
	require.NoError(t, err)

	promo, err := NewPercentDiscount("30% off!", 30)
	require.NoError(t, err)
	product.SetPromotion(promo)
	assert.Equal(t, promo, product.Promotion())

	product.RemovePromotion()
	assert.Nil(t, product.Promotion())

	total, err := product.Buy(2)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, total, 1e-9)
}

func TestProduct_SetQuantityRoundTrip(t *testing.T) {
	product, err := NewProduct("Widget", 10, 5)
	require.NoError(t, err)

	require.NoError(t, product.SetQuantity(0))
	assert.False(t, product.IsActive())

	require.NoError(t, product.SetQuantity(5))
	assert.True(t, product.IsActive())
	assert.Equal(t, 5, product.GetQuantity())

	assert.ErrorIs(t, product.SetQuantity(-1), ErrInvalidArgument)
}

func TestProduct_ActivateIsIndependentOfQuantity(t *testing.T) {
	product, err := NewProduct("Widget", 10, 0)
	require.NoError(t, err)
	assert.False(t, product.IsActive())

	product.Activate()
	assert.True(t, product.IsActive())
	assert.Equal(t, 0, product.GetQuantity())
}

func TestProduct_Show(t *testing.T) {
	product, err := NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)
	assert.Equal(t, "MacBook Air M2, price: 1450, quantity: 100", product.Show())

	product.SetPromotion(NewThirdOneFree("Third One Free!"))
	assert.Equal(t, "MacBook Air M2, price: 1450, quantity: 100 (Promotion: Third One Free!)", product.Show())
}

func TestNonStockedProduct_AlwaysActive(t *testing.T) {
	product, err := NewNonStockedProduct("Windows License", 125)
	require.NoError(t, err)

	assert.True(t, product.IsActive())
	assert.Equal(t, 0, product.GetQuantity())

	total, err := product.Buy(4)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, total, 1e-9)

	// No stock is tracked, so buying never exhausts it.
	assert.Equal(t, 0, product.GetQuantity())
	assert.True(t, product.IsActive())
}

func TestNonStockedProduct_SetQuantityForbidden(t *testing.T) {
	product, err := NewNonStockedProduct("Windows License", 125)
	require.NoError(t, err)

	assert.ErrorIs(t, product.SetQuantity(10), ErrInvalidOperation)
}

func TestNonStockedProduct_IgnoresPromotion(t *testing.T) {
	product, err := NewNonStockedProduct("Windows License", 125)
	require.NoError(t, err)
	product.SetPromotion(NewThirdOneFree("Third One Free!"))

	total, err := product.Buy(3)
	require.NoError(t, err)
	assert.InDelta(t, 375.0, total, 1e-9)
}

func TestNonStockedProduct_Show(t *testing.T) {
	product, err := NewNonStockedProduct("Windows License", 125)
	require.NoError(t, err)

	assert.Equal(t, "Windows License, price: 125, quantity: 0 (Non-stocked, unlimited availability)", product.Show())
}

func TestLimitedProduct_BuyWithinMaximum(t *testing.T) {
	product, err := NewLimitedProduct("Shipping", 10, 250, 1)
	require.NoError(t, err)

	total, err := product.Buy(1)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, total, 1e-9)
	assert.Equal(t, 249, product.GetQuantity())
}

func TestLimitedProduct_BuyAboveMaximum(t *testing.T) {
	product, err := NewLimitedProduct("Shipping", 10, 250, 1)
	require.NoError(t, err)

	_, err = product.Buy(2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	// Rejected before any stock mutation.
	assert.Equal(t, 250, product.GetQuantity())
}

func TestNewLimitedProduct_InvalidMaximum(t *testing.T) {
	_, err := NewLimitedProduct("Shipping", 10, 250, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLimitedProduct_Show(t *testing.T) {
	product, err := NewLimitedProduct("Shipping", 10, 250, 1)
	require.NoError(t, err)

	assert.Equal(t, "Shipping, price: 10, quantity: 250 max per order: 1", product.Show())
}

func TestShow_FractionalPrice(t *testing.T) {
	product, err := NewProduct("Gum", 1.5, 10)
	require.NoError(t, err)

	assert.Equal(t, "Gum, price: 1.5, quantity: 10", product.Show())
}
