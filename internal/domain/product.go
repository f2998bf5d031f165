package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Product is a catalog item with stock tracking, an active/inactive state and
// an optional attached promotion. Variants differ in their stock semantics:
// standard products deactivate when stock runs out, non-stocked products are
// always available, limited products cap the units sold per order.
type Product interface {
	ID() uuid.UUID
	Name() string
	Price() float64
	GetQuantity() int
	SetQuantity(quantity int) error
	IsActive() bool
	Activate()
	Deactivate()
	Show() string
	Buy(quantity int) (float64, error)
	SetPromotion(p Promotion)
	RemovePromotion()
	Promotion() Promotion
}

// StandardProduct tracks stock normally and deactivates at zero quantity.
type StandardProduct struct {
	id        uuid.UUID
	name      string
	price     float64
	quantity  int
	active    bool
	promotion Promotion
}

// NewProduct creates a standard product. The name must be non-empty, the price
// non-negative and the quantity non-negative. The product starts active when
// quantity is positive.
func NewProduct(name string, price float64, quantity int) (*StandardProduct, error) {
	if err := validateAttributes(name, price, quantity); err != nil {
		return nil, err
	}
	return &StandardProduct{
		id:       uuid.New(),
		name:     name,
		price:    price,
		quantity: quantity,
		active:   quantity > 0,
	}, nil
}

func validateAttributes(name string, price float64, quantity int) error {
	if name == "" {
		return fmt.Errorf("%w: product name cannot be empty", ErrInvalidArgument)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative, got %v", ErrInvalidArgument, price)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative, got %d", ErrInvalidArgument, quantity)
	}
	return nil
}

func (p *StandardProduct) ID() uuid.UUID {
	return p.id
}

func (p *StandardProduct) Name() string {
	return p.name
}

func (p *StandardProduct) Price() float64 {
	return p.price
}

func (p *StandardProduct) GetQuantity() int {
	return p.quantity
}

// SetQuantity replaces the current stock level and recomputes the active
// state: a positive quantity reactivates a sold-out product.
func (p *StandardProduct) SetQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative, got %d", ErrInvalidArgument, quantity)
	}
	p.quantity = quantity
	p.active = quantity > 0
	return nil
}

func (p *StandardProduct) IsActive() bool {
	return p.active
}

// Activate marks the product as purchasable regardless of its quantity.
func (p *StandardProduct) Activate() {
	p.active = true
}

// Deactivate marks the product as not purchasable regardless of its quantity.
func (p *StandardProduct) Deactivate() {
	p.active = false
}

func (p *StandardProduct) Show() string {
	return p.describe() + p.promotionSuffix()
}

func (p *StandardProduct) describe() string {
	return fmt.Sprintf("%s, price: %s, quantity: %d", p.name, formatPrice(p.price), p.quantity)
}

func (p *StandardProduct) promotionSuffix() string {
	if p.promotion == nil {
		return ""
	}
	return fmt.Sprintf(" (Promotion: %s)", p.promotion.Name())
}

// SetPromotion attaches a pricing strategy. The promotion is shared, not
// owned: the same Promotion value may be attached to many products.
func (p *StandardProduct) SetPromotion(promo Promotion) {
	p.promotion = promo
}

// RemovePromotion detaches the current promotion, if any.
func (p *StandardProduct) RemovePromotion() {
	p.promotion = nil
}

func (p *StandardProduct) Promotion() Promotion {
	return p.promotion
}

// Buy purchases the given number of units and returns the total price, with
// the attached promotion applied if there is one. The call is atomic: on any
// error the stock is left untouched. Buying the last unit deactivates the
// product.
func (p *StandardProduct) Buy(quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: buy quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	if !p.active {
		return 0, fmt.Errorf("%w: product %q is not active", ErrInvalidState, p.name)
	}
	if quantity > p.quantity {
		return 0, fmt.Errorf("%w: requested %d units of %q, only %d in stock", ErrInsufficientStock, quantity, p.name, p.quantity)
	}

	total := p.lineTotal(quantity)

	p.quantity -= quantity
	if p.quantity == 0 {
		p.Deactivate()
	}

	return total, nil
}

func (p *StandardProduct) lineTotal(quantity int) float64 {
	if p.promotion != nil {
		return p.promotion.Price(p.price, quantity)
	}
	return p.price * float64(quantity)
}

// NonStockedProduct has no physical stock: its quantity is fixed at zero, it
// is always purchasable, and promotions do not apply to it.
type NonStockedProduct struct {
	StandardProduct
}

// NewNonStockedProduct creates a product with unlimited availability.
func NewNonStockedProduct(name string, price float64) (*NonStockedProduct, error) {
	if err := validateAttributes(name, price, 0); err != nil {
		return nil, err
	}
	return &NonStockedProduct{
		StandardProduct: StandardProduct{
			id:     uuid.New(),
			name:   name,
			price:  price,
			active: true,
		},
	}, nil
}

// SetQuantity is not supported: the quantity of a non-stocked product is
// fixed at zero.
func (p *NonStockedProduct) SetQuantity(quantity int) error {
	return fmt.Errorf("%w: quantity of non-stocked product %q is fixed", ErrInvalidOperation, p.name)
}

// Buy charges the plain unit price for the requested units without touching
// stock. Attached promotions are ignored for this variant.
func (p *NonStockedProduct) Buy(quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: buy quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	if !p.active {
		return 0, fmt.Errorf("%w: product %q is not active", ErrInvalidState, p.name)
	}
	return p.price * float64(quantity), nil
}

func (p *NonStockedProduct) Show() string {
	return p.describe() + " (Non-stocked, unlimited availability)" + p.promotionSuffix()
}

// LimitedProduct tracks stock like a standard product but caps the number of
// units a single purchase may take.
type LimitedProduct struct {
	StandardProduct
	maximum int
}

// NewLimitedProduct creates a product with a per-order purchase cap.
// The maximum must be at least 1.
func NewLimitedProduct(name string, price float64, quantity, maximum int) (*LimitedProduct, error) {
	if err := validateAttributes(name, price, quantity); err != nil {
		return nil, err
	}
	if maximum < 1 {
		return nil, fmt.Errorf("%w: maximum per order must be at least 1, got %d", ErrInvalidArgument, maximum)
	}
	return &LimitedProduct{
		StandardProduct: StandardProduct{
			id:       uuid.New(),
			name:     name,
			price:    price,
			quantity: quantity,
			active:   quantity > 0,
		},
		maximum: maximum,
	}, nil
}

func (p *LimitedProduct) Maximum() int {
	return p.maximum
}

// Buy rejects purchases above the per-order maximum before applying the
// standard stock rules.
func (p *LimitedProduct) Buy(quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: buy quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	if !p.active {
		return 0, fmt.Errorf("%w: product %q is not active", ErrInvalidState, p.name)
	}
	if quantity > p.maximum {
		return 0, fmt.Errorf("%w: quantity %d exceeds maximum of %d per order for %q", ErrInvalidArgument, quantity, p.maximum, p.name)
	}
	return p.StandardProduct.Buy(quantity)
}

func (p *LimitedProduct) Show() string {
	return p.describe() + fmt.Sprintf(" max per order: %d", p.maximum) + p.promotionSuffix()
}

// formatPrice renders a price the shortest way that round-trips, so whole
// prices print without a trailing ".0".
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
