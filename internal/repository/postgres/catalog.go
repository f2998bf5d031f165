package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/elis-elis/bestbuy/internal/domain"
)

// CatalogRepository implements domain.CatalogRepository for PostgreSQL
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new PostgreSQL catalog repository
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// productRow mirrors the products table; promotion columns are nullable
// because most products carry no promotion.
type productRow struct {
	ID               uuid.UUID       `db:"id"`
	Kind             string          `db:"kind"`
	Name             string          `db:"name"`
	Price            float64         `db:"price"`
	Quantity         int             `db:"quantity"`
	Maximum          int             `db:"maximum"`
	PromotionKind    sql.NullString  `db:"promotion_kind"`
	PromotionName    sql.NullString  `db:"promotion_name"`
	PromotionPercent sql.NullFloat64 `db:"promotion_percent"`
	Position         int             `db:"position"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r productRow) toSpec() domain.ProductSpec {
	spec := domain.ProductSpec{
		ID:       r.ID,
		Kind:     domain.ProductKind(r.Kind),
		Name:     r.Name,
		Price:    r.Price,
		Quantity: r.Quantity,
		Maximum:  r.Maximum,
	}
	if r.PromotionKind.Valid {
		spec.Promotion = &domain.PromotionSpec{
			Kind:    domain.PromotionKind(r.PromotionKind.String),
			Name:    r.PromotionName.String,
			Percent: r.PromotionPercent.Float64,
		}
	}
	return spec
}

// LoadAll materializes the full catalog in stored position order
func (r *CatalogRepository) LoadAll(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, kind, name, price, quantity, maximum,
		       promotion_kind, promotion_name, promotion_percent,
		       position, created_at, updated_at
		FROM products
		ORDER BY position ASC
	`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		product, err := domain.BuildProduct(row.toSpec())
		if err != nil {
			return nil, fmt.Errorf("rebuilding product %s: %w", row.ID, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// Insert appends a product at the given display position
func (r *CatalogRepository) Insert(ctx context.Context, p domain.Product, position int) error {
	query := `
		INSERT INTO products (id, kind, name, price, quantity, maximum,
		                      promotion_kind, promotion_name, promotion_percent,
		                      position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	`

	spec := domain.SpecOf(p)

	var promoKind, promoName sql.NullString
	var promoPercent sql.NullFloat64
	if spec.Promotion != nil {
		promoKind = sql.NullString{String: string(spec.Promotion.Kind), Valid: true}
		promoName = sql.NullString{String: spec.Promotion.Name, Valid: true}
		promoPercent = sql.NullFloat64{Float64: spec.Promotion.Percent, Valid: true}
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		spec.ID,
		string(spec.Kind),
		spec.Name,
		spec.Price,
		spec.Quantity,
		spec.Maximum,
		promoKind,
		promoName,
		promoPercent,
		position,
		time.Now(),
	)
	return err
}

// Delete removes a product row
func (r *CatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// SaveQuantities writes back the current quantity of each given product in
// one transaction.
func (r *CatalogRepository) SaveQuantities(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `UPDATE products SET quantity = $1, updated_at = $2 WHERE id = $3`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, p := range products {
		if _, err := tx.ExecContext(ctx, query, p.GetQuantity(), now, p.ID()); err != nil {
			return fmt.Errorf("failed to save quantity for %s: %w", p.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
