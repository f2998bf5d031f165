package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStore(t *testing.T) (*Store, *StandardProduct, *StandardProduct) {
	t.Helper()

	macbook, err := NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)
	earbuds, err := NewProduct("Bose QuietComfort Earbuds", 250, 500)
	require.NoError(t, err)

	return NewStore([]Product{macbook, earbuds}), macbook, earbuds
}

func TestStore_AddAndRemoveProduct(t *testing.T) {
	store, macbook, _ := buildStore(t)

	pixel, err := NewProduct("Google Pixel 7", 500, 250)
	require.NoError(t, err)

	store.AddProduct(pixel)
	assert.Len(t, store.GetAllProducts(), 3)

	require.NoError(t, store.RemoveProduct(macbook))
	assert.Len(t, store.GetAllProducts(), 2)

	err = store.RemoveProduct(macbook)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetTotalQuantity(t *testing.T) {
	store, macbook, _ := buildStore(t)

	assert.Equal(t, 600, store.GetTotalQuantity())

	// Inactive products still count toward the total.
	macbook.Deactivate()
	assert.Equal(t, 600, store.GetTotalQuantity())
}

func TestStore_GetAllProductsFiltersInactive(t *testing.T) {
	store, macbook, earbuds := buildStore(t)

	macbook.Deactivate()

	active := store.GetAllProducts()
	require.Len(t, active, 1)
	assert.Same(t, earbuds, active[0])
}

func TestStore_GetAllProductsIsSnapshot(t *testing.T) {
	store, macbook, _ := buildStore(t)

	before := store.GetAllProducts()
	macbook.Deactivate()

	// The earlier snapshot does not shrink.
	assert.Len(t, before, 2)
	assert.Len(t, store.GetAllProducts(), 1)
}

func TestStore_GetAllProductsPreservesInsertionOrder(t *testing.T) {
	store, macbook, earbuds := buildStore(t)

	active := store.GetAllProducts()
	require.Len(t, active, 2)
	assert.Same(t, macbook, active[0])
	assert.Same(t, earbuds, active[1])
}

func TestStore_Order(t *testing.T) {
	store, macbook, earbuds := buildStore(t)

	total, err := store.Order([]OrderLine{
		{Product: macbook, Quantity: 1},
		{Product: earbuds, Quantity: 2},
	})
	require.NoError(t, err)

	assert.InDelta(t, 1950.0, total, 1e-9)
	assert.Equal(t, 99, macbook.GetQuantity())
	assert.Equal(t, 498, earbuds.GetQuantity())
}

func TestStore_OrderUnknownProduct(t *testing.T) {
	store, macbook, _ := buildStore(t)

	stranger, err := NewProduct("Google Pixel 7", 500, 250)
	require.NoError(t, err)

	_, err = store.Order([]OrderLine{{Product: stranger, Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 100, macbook.GetQuantity())
}

func TestStore_OrderPartialApplication(t *testing.T) {
	widget, err := NewProduct("Widget", 10, 3)
	require.NoError(t, err)
	store := NewStore([]Product{widget})

	// The first line drains stock to 1; the second then fails, leaving the
	// first line's mutation applied.
	total, applied, err := store.OrderApplied([]OrderLine{
		{Product: widget, Quantity: 2},
		{Product: widget, Quantity: 2},
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, applied)
	assert.InDelta(t, 20.0, total, 1e-9)
	assert.Equal(t, 1, widget.GetQuantity())
}

func TestStore_OrderSameProductTwiceWithinStock(t *testing.T) {
	widget, err := NewProduct("Widget", 10, 5)
	require.NoError(t, err)
	store := NewStore([]Product{widget})

	total, err := store.Order([]OrderLine{
		{Product: widget, Quantity: 2},
		{Product: widget, Quantity: 3},
	})
	require.NoError(t, err)

	assert.InDelta(t, 50.0, total, 1e-9)
	assert.Equal(t, 0, widget.GetQuantity())
	assert.False(t, widget.IsActive())
}

func TestStore_PreviewOrderDoesNotMutate(t *testing.T) {
	store, macbook, earbuds := buildStore(t)
	earbuds.SetPromotion(NewSecondHalfPrice("Second Half price!"))

	total, err := store.PreviewOrder([]OrderLine{
		{Product: macbook, Quantity: 1},
		{Product: earbuds, Quantity: 2},
	})
	require.NoError(t, err)

	assert.InDelta(t, 1450.0+375.0, total, 1e-9)
	assert.Equal(t, 100, macbook.GetQuantity())
	assert.Equal(t, 500, earbuds.GetQuantity())
}

func TestStore_PreviewOrderSimulatesCumulativeStock(t *testing.T) {
	widget, err := NewProduct("Widget", 10, 3)
	require.NoError(t, err)
	store := NewStore([]Product{widget})

	_, err = store.PreviewOrder([]OrderLine{
		{Product: widget, Quantity: 2},
		{Product: widget, Quantity: 2},
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, widget.GetQuantity())
}

func TestStore_PreviewOrderValidatesVariants(t *testing.T) {
	shipping, err := NewLimitedProduct("Shipping", 10, 250, 1)
	require.NoError(t, err)
	license, err := NewNonStockedProduct("Windows License", 125)
	require.NoError(t, err)
	store := NewStore([]Product{shipping, license})

	_, err = store.PreviewOrder([]OrderLine{{Product: shipping, Quantity: 2}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Non-stocked lines never run out.
	total, err := store.PreviewOrder([]OrderLine{
		{Product: license, Quantity: 10},
		{Product: license, Quantity: 10},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2500.0, total, 1e-9)
}

func TestBuildProduct_RoundTrip(t *testing.T) {
	shipping, err := NewLimitedProduct("Shipping", 10, 250, 1)
	require.NoError(t, err)
	promo, err := NewPercentDiscount("30% off!", 30)
	require.NoError(t, err)
	shipping.SetPromotion(promo)

	rebuilt, err := BuildProduct(SpecOf(shipping))
	require.NoError(t, err)

	assert.Equal(t, shipping.ID(), rebuilt.ID())
	assert.Equal(t, shipping.Show(), rebuilt.Show())
	assert.Equal(t, shipping.GetQuantity(), rebuilt.GetQuantity())
}

func TestBuildProduct_UnknownKind(t *testing.T) {
	_, err := BuildProduct(ProductSpec{Kind: "mystery", Name: "x", Price: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
