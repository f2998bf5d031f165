package domain

import "fmt"

// OrderLine pairs a product reference with a requested quantity.
type OrderLine struct {
	Product  Product
	Quantity int
}

// Store aggregates products in insertion order and fulfills multi-line
// orders. It is meant for a single logical caller; it does no locking.
type Store struct {
	products []Product
}

// NewStore creates a store holding the given initial catalog. The slice is
// copied, the products are shared.
func NewStore(products []Product) *Store {
	s := &Store{products: make([]Product, 0, len(products))}
	s.products = append(s.products, products...)
	return s
}

// AddProduct appends a product to the catalog. Duplicates are not checked.
func (s *Store) AddProduct(p Product) {
	s.products = append(s.products, p)
}

// RemoveProduct removes the first entry identical to p.
func (s *Store) RemoveProduct(p Product) error {
	for i, member := range s.products {
		if member == p {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: product %q is not in store", ErrNotFound, p.Name())
}

// Contains reports whether p is a current member, by identity.
func (s *Store) Contains(p Product) bool {
	for _, member := range s.products {
		if member == p {
			return true
		}
	}
	return false
}

// Products returns a snapshot of every member, active or not, in store order.
func (s *Store) Products() []Product {
	snapshot := make([]Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}

// GetTotalQuantity sums the stock of every product, active or not.
func (s *Store) GetTotalQuantity() int {
	total := 0
	for _, p := range s.products {
		total += p.GetQuantity()
	}
	return total
}

// GetAllProducts returns the active products in store order. The returned
// slice is a fresh snapshot, not a live view.
func (s *Store) GetAllProducts() []Product {
	active := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// Order fulfills the given lines in sequence and returns the total price.
//
// Lines are applied eagerly, not transactionally: when line k fails, the
// mutations from lines 0..k-1 stay applied and the error is returned. Callers
// that need to know how far the order got should use OrderApplied; callers
// that want a no-mutation quote should use PreviewOrder first.
func (s *Store) Order(lines []OrderLine) (float64, error) {
	total, _, err := s.OrderApplied(lines)
	return total, err
}

// OrderApplied is Order with the number of successfully applied lines
// reported alongside the total accumulated so far.
func (s *Store) OrderApplied(lines []OrderLine) (float64, int, error) {
	total := 0.0
	for i, line := range lines {
		if !s.Contains(line.Product) {
			return total, i, fmt.Errorf("%w: product %q is not in store", ErrNotFound, line.Product.Name())
		}
		linePrice, err := line.Product.Buy(line.Quantity)
		if err != nil {
			return total, i, err
		}
		total += linePrice
	}
	return total, len(lines), nil
}

// PreviewOrder prices the given lines without mutating any product. Every
// line is validated as Order would, with stock simulated cumulatively per
// product so repeated lines for the same product are checked against what
// earlier lines would leave behind.
func (s *Store) PreviewOrder(lines []OrderLine) (float64, error) {
	remaining := make(map[Product]int, len(lines))
	total := 0.0

	for _, line := range lines {
		p := line.Product
		if !s.Contains(p) {
			return 0, fmt.Errorf("%w: product %q is not in store", ErrNotFound, p.Name())
		}
		if line.Quantity <= 0 {
			return 0, fmt.Errorf("%w: buy quantity must be positive, got %d", ErrInvalidArgument, line.Quantity)
		}
		if !p.IsActive() {
			return 0, fmt.Errorf("%w: product %q is not active", ErrInvalidState, p.Name())
		}
		if limited, ok := p.(*LimitedProduct); ok && line.Quantity > limited.Maximum() {
			return 0, fmt.Errorf("%w: quantity %d exceeds maximum of %d per order for %q", ErrInvalidArgument, line.Quantity, limited.Maximum(), p.Name())
		}

		if _, nonStocked := p.(*NonStockedProduct); !nonStocked {
			stock, seen := remaining[p]
			if !seen {
				stock = p.GetQuantity()
			}
			if line.Quantity > stock {
				return 0, fmt.Errorf("%w: requested %d units of %q, only %d in stock", ErrInsufficientStock, line.Quantity, p.Name(), stock)
			}
			remaining[p] = stock - line.Quantity
		}

		total += LinePrice(p, line.Quantity)
	}

	return total, nil
}

// LinePrice quotes one line without stock checks or mutation: the promotion
// price when one is attached, plain unit price otherwise. Promotions are not
// wired into the non-stocked variant, matching Buy.
func LinePrice(p Product, quantity int) float64 {
	if _, nonStocked := p.(*NonStockedProduct); !nonStocked && p.Promotion() != nil {
		return p.Promotion().Price(p.Price(), quantity)
	}
	return p.Price() * float64(quantity)
}
