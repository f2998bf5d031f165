package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/elis-elis/bestbuy/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LowStockProduct is a stocked product sitting at or below the alert threshold.
type LowStockProduct struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	Quantity int       `db:"quantity"`
	Active   bool      `db:"active"`
}

// Checker inspects persisted stock levels and raises low-stock alerts.
// Non-stocked products are excluded: their quantity is always zero by
// convention and never runs out.
type Checker struct {
	db        *sqlx.DB
	logger    *logger.Logger
	threshold int
}

// NewChecker creates a new stock checker with the given alert threshold
func NewChecker(db *sqlx.DB, logger *logger.Logger, threshold int) *Checker {
	return &Checker{
		db:        db,
		logger:    logger,
		threshold: threshold,
	}
}

// Check reads the current stock level for a product and logs a warning
// when it is at or below the threshold. A missing product is not an
// error: the order that triggered the check may race with a delete.
func (c *Checker) Check(ctx context.Context, productID uuid.UUID) error {
	var product LowStockProduct
	query := `SELECT id, name, quantity, active FROM products WHERE id = $1 AND kind <> 'non_stocked'`

	err := c.db.GetContext(ctx, &product, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.logger.WithFields(map[string]any{
				"product_id": productID.String(),
			}).Info("Product not found or non-stocked, skipping stock check")
			return nil
		}
		return fmt.Errorf("failed to read stock level: %w", err)
	}

	if product.Quantity > c.threshold {
		c.logger.WithFields(map[string]any{
			"product_id": productID.String(),
			"quantity":   product.Quantity,
		}).Debug("Stock level above threshold")
		return nil
	}

	c.alert(product)
	return nil
}

// ScanLowStock returns every stocked product at or below the threshold.
// Used for the startup sweep so alerts raised while the worker was down
// are not lost.
func (c *Checker) ScanLowStock(ctx context.Context) ([]LowStockProduct, error) {
	var products []LowStockProduct
	query := `
		SELECT id, name, quantity, active
		FROM products
		WHERE kind <> 'non_stocked' AND quantity <= $1
		ORDER BY quantity ASC
	`

	if err := c.db.SelectContext(ctx, &products, query, c.threshold); err != nil {
		return nil, fmt.Errorf("failed to scan stock levels: %w", err)
	}

	for _, product := range products {
		c.alert(product)
	}

	return products, nil
}

func (c *Checker) alert(product LowStockProduct) {
	fields := map[string]any{
		"product_id": product.ID.String(),
		"name":       product.Name,
		"quantity":   product.Quantity,
		"threshold":  c.threshold,
	}

	if product.Quantity == 0 {
		c.logger.WithFields(fields).Warn("Product out of stock")
		return
	}

	c.logger.WithFields(fields).Warn("Product stock below threshold")
}
