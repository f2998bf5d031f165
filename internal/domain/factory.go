package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ProductKind discriminates the product variants in stored catalog rows.
type ProductKind string

const (
	KindStandard   ProductKind = "standard"
	KindNonStocked ProductKind = "non_stocked"
	KindLimited    ProductKind = "limited"
)

// PromotionKind discriminates the promotion strategies in stored catalog rows.
type PromotionKind string

const (
	PromoPercentDiscount PromotionKind = "percent_discount"
	PromoSecondHalfPrice PromotionKind = "second_half_price"
	PromoThirdOneFree    PromotionKind = "third_one_free"
)

// ProductSpec is the serializable description of a product, used to rebuild
// catalog entries loaded from storage.
type ProductSpec struct {
	ID        uuid.UUID
	Kind      ProductKind
	Name      string
	Price     float64
	Quantity  int
	Maximum   int
	Promotion *PromotionSpec
}

// PromotionSpec is the serializable description of a promotion.
type PromotionSpec struct {
	Kind    PromotionKind
	Name    string
	Percent float64
}

// BuildProduct materializes a product from its spec, attaching the described
// promotion when present. A zero spec ID keeps the freshly generated one.
func BuildProduct(spec ProductSpec) (Product, error) {
	var (
		product Product
		err     error
	)

	switch spec.Kind {
	case KindStandard:
		var p *StandardProduct
		p, err = NewProduct(spec.Name, spec.Price, spec.Quantity)
		if err == nil {
			if spec.ID != uuid.Nil {
				p.id = spec.ID
			}
			product = p
		}
	case KindNonStocked:
		var p *NonStockedProduct
		p, err = NewNonStockedProduct(spec.Name, spec.Price)
		if err == nil {
			if spec.ID != uuid.Nil {
				p.id = spec.ID
			}
			product = p
		}
	case KindLimited:
		var p *LimitedProduct
		p, err = NewLimitedProduct(spec.Name, spec.Price, spec.Quantity, spec.Maximum)
		if err == nil {
			if spec.ID != uuid.Nil {
				p.id = spec.ID
			}
			product = p
		}
	default:
		return nil, fmt.Errorf("%w: unknown product kind %q", ErrInvalidArgument, spec.Kind)
	}
	if err != nil {
		return nil, err
	}

	if spec.Promotion != nil {
		promo, err := BuildPromotion(*spec.Promotion)
		if err != nil {
			return nil, err
		}
		product.SetPromotion(promo)
	}

	return product, nil
}

// BuildPromotion materializes a promotion from its spec.
func BuildPromotion(spec PromotionSpec) (Promotion, error) {
	switch spec.Kind {
	case PromoPercentDiscount:
		return NewPercentDiscount(spec.Name, spec.Percent)
	case PromoSecondHalfPrice:
		return NewSecondHalfPrice(spec.Name), nil
	case PromoThirdOneFree:
		return NewThirdOneFree(spec.Name), nil
	default:
		return nil, fmt.Errorf("%w: unknown promotion kind %q", ErrInvalidArgument, spec.Kind)
	}
}

// SpecOf inverts BuildProduct: it captures a live product as a spec suitable
// for persistence.
func SpecOf(p Product) ProductSpec {
	spec := ProductSpec{
		ID:       p.ID(),
		Kind:     KindStandard,
		Name:     p.Name(),
		Price:    p.Price(),
		Quantity: p.GetQuantity(),
	}

	switch v := p.(type) {
	case *NonStockedProduct:
		spec.Kind = KindNonStocked
	case *LimitedProduct:
		spec.Kind = KindLimited
		spec.Maximum = v.Maximum()
	}

	if promo := p.Promotion(); promo != nil {
		spec.Promotion = specOfPromotion(promo)
	}

	return spec
}

func specOfPromotion(promo Promotion) *PromotionSpec {
	spec := &PromotionSpec{Name: promo.Name()}
	switch v := promo.(type) {
	case *PercentDiscount:
		spec.Kind = PromoPercentDiscount
		spec.Percent = v.percent
	case *SecondHalfPrice:
		spec.Kind = PromoSecondHalfPrice
	case *ThirdOneFree:
		spec.Kind = PromoThirdOneFree
	}
	return spec
}
