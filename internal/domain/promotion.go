package domain

import "fmt"

// Promotion is a pure pricing strategy attached to a product at purchase time.
// Price must not mutate the product or any external state; quantity is
// guaranteed >= 1 by Product.Buy, which validates before delegating.
type Promotion interface {
	Name() string
	Price(unitPrice float64, quantity int) float64
}

// PercentDiscount applies a flat percentage discount to the whole line.
type PercentDiscount struct {
	name    string
	percent float64
}

// NewPercentDiscount creates a percentage discount. Percent outside [0, 100]
// is rejected: negative values would inflate the price and values above 100
// would produce negative totals.
func NewPercentDiscount(name string, percent float64) (*PercentDiscount, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("%w: percent must be between 0 and 100, got %v", ErrInvalidArgument, percent)
	}
	return &PercentDiscount{name: name, percent: percent}, nil
}

func (p *PercentDiscount) Name() string {
	return p.name
}

func (p *PercentDiscount) Price(unitPrice float64, quantity int) float64 {
	total := unitPrice * float64(quantity)
	return total - total*p.percent/100
}

// SecondHalfPrice prices every second unit in a pair at half price.
// A single unit is charged in full.
type SecondHalfPrice struct {
	name string
}

// NewSecondHalfPrice creates a second-item-half-price promotion.
func NewSecondHalfPrice(name string) *SecondHalfPrice {
	return &SecondHalfPrice{name: name}
}

func (p *SecondHalfPrice) Name() string {
	return p.name
}

func (p *SecondHalfPrice) Price(unitPrice float64, quantity int) float64 {
	halfPriceItems := quantity / 2
	fullPriceItems := quantity - halfPriceItems
	return float64(fullPriceItems)*unitPrice + float64(halfPriceItems)*unitPrice/2
}

// ThirdOneFree gives one unit free for every three purchased.
type ThirdOneFree struct {
	name string
}

// NewThirdOneFree creates a buy-two-get-one-free promotion.
func NewThirdOneFree(name string) *ThirdOneFree {
	return &ThirdOneFree{name: name}
}

func (p *ThirdOneFree) Name() string {
	return p.name
}

func (p *ThirdOneFree) Price(unitPrice float64, quantity int) float64 {
	freeItems := quantity / 3
	payableItems := quantity - freeItems
	return float64(payableItems) * unitPrice
}
