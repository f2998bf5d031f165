package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentDiscount_Price(t *testing.T) {
	promo, err := NewPercentDiscount("30% off!", 30)
	require.NoError(t, err)

	assert.InDelta(t, 700.0, promo.Price(100, 10), 1e-9)
	assert.InDelta(t, 70.0, promo.Price(100, 1), 1e-9)
}

func TestPercentDiscount_ZeroAndFullDiscount(t *testing.T) {
	free, err := NewPercentDiscount("everything free", 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, free.Price(250, 4), 1e-9)

	none, err := NewPercentDiscount("no discount", 0)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, none.Price(250, 4), 1e-9)
}

func TestPercentDiscount_RejectsOutOfBoundsPercent(t *testing.T) {
	_, err := NewPercentDiscount("negative", -5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewPercentDiscount("too steep", 120)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSecondHalfPrice_Price(t *testing.T) {
	promo := NewSecondHalfPrice("Second Half price!")

	// A single unit gets no discount.
	assert.InDelta(t, 100.0, promo.Price(100, 1), 1e-9)
	assert.InDelta(t, 150.0, promo.Price(100, 2), 1e-9)
	assert.InDelta(t, 250.0, promo.Price(100, 3), 1e-9)
	// Two full plus two half.
	assert.InDelta(t, 300.0, promo.Price(100, 4), 1e-9)
}

func TestThirdOneFree_Price(t *testing.T) {
	promo := NewThirdOneFree("Third One Free!")

	assert.InDelta(t, 100.0, promo.Price(100, 1), 1e-9)
	assert.InDelta(t, 200.0, promo.Price(100, 2), 1e-9)
	assert.InDelta(t, 200.0, promo.Price(100, 3), 1e-9)
	assert.InDelta(t, 400.0, promo.Price(100, 6), 1e-9)
	assert.InDelta(t, 500.0, promo.Price(100, 7), 1e-9)
}

func TestPromotion_PriceLeavesProductUntouched(t *testing.T) {
	product, err := NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)

	promo := NewThirdOneFree("Third One Free!")
	product.SetPromotion(promo)

	promo.Price(product.Price(), 9)

	assert.Equal(t, 100, product.GetQuantity())
	assert.True(t, product.IsActive())
}
