package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order statuses recorded for fulfilled orders. A partially applied order had
// some lines succeed before a later line failed; its mutations stand.
const (
	OrderStatusCompleted = "completed"
	OrderStatusPartial   = "partially_applied"
)

// OrderRecord is the persisted trace of one Store.Order call.
type OrderRecord struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	Total        float64           `json:"total" db:"total"`
	Status       string            `json:"status" db:"status"`
	AppliedLines int               `json:"applied_lines" db:"applied_lines"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	Lines        []OrderLineRecord `json:"lines" db:"-"`
}

// OrderLineRecord is one applied line of a recorded order.
type OrderLineRecord struct {
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	LineTotal float64   `json:"line_total" db:"line_total"`
}

// CatalogRepository defines the persistence surface for the product catalog.
// The store itself works on in-memory products; the repository holds the
// durable snapshot they are loaded from and written back to.
type CatalogRepository interface {
	// LoadAll materializes every catalog product in stored position order
	LoadAll(ctx context.Context) ([]Product, error)

	// Insert appends a product at the given display position
	Insert(ctx context.Context, p Product, position int) error

	// Delete removes a product row
	Delete(ctx context.Context, id uuid.UUID) error

	// SaveQuantities writes back the current quantity of each given product
	SaveQuantities(ctx context.Context, products []Product) error
}

// OrderRepository records fulfilled orders.
type OrderRepository interface {
	Record(ctx context.Context, order *OrderRecord) error
}
