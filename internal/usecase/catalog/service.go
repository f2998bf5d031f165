package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/elis-elis/bestbuy/internal/domain"
	"github.com/elis-elis/bestbuy/internal/pkg/logger"
)

// Cache defines the catalog read cache used by the service
type Cache interface {
	GetActiveCatalog(ctx context.Context) ([]domain.ProductSpec, error)
	SetActiveCatalog(ctx context.Context, specs []domain.ProductSpec) error
	GetTotalQuantity(ctx context.Context) (int, error)
	SetTotalQuantity(ctx context.Context, total int) error
	InvalidateCatalog(ctx context.Context) error
}

// ProductView is the rendered catalog entry served to clients. Number is the
// 1-based display position among the active products.
type ProductView struct {
	Number   int       `json:"number"`
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
	Display  string    `json:"display"`
}

// Service handles catalog business logic around the in-memory store
type Service struct {
	store  *domain.Store
	repo   domain.CatalogRepository
	cache  Cache
	logger *logger.Logger
}

// NewService creates a new catalog service
func NewService(store *domain.Store, repo domain.CatalogRepository, cache Cache, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// ListActive returns the active products in store order, serving from cache
// when a fresh snapshot is available.
func (s *Service) ListActive(ctx context.Context) ([]ProductView, error) {
	if specs, err := s.cache.GetActiveCatalog(ctx); err == nil {
		views, buildErr := viewsFromSpecs(specs)
		if buildErr == nil {
			return views, nil
		}
		s.logger.Warnf("Discarding unusable catalog cache entry: %v", buildErr)
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warnf("Catalog cache read failed: %v", err)
	}

	active := s.store.GetAllProducts()

	views := make([]ProductView, 0, len(active))
	specs := make([]domain.ProductSpec, 0, len(active))
	for i, p := range active {
		views = append(views, viewOf(i+1, p))
		specs = append(specs, domain.SpecOf(p))
	}

	if err := s.cache.SetActiveCatalog(ctx, specs); err != nil {
		s.logger.Warnf("Failed to cache catalog snapshot: %v", err)
	}

	return views, nil
}

// TotalQuantity returns the summed stock of every product, cached alongside
// the catalog snapshot.
func (s *Service) TotalQuantity(ctx context.Context) (int, error) {
	if total, err := s.cache.GetTotalQuantity(ctx); err == nil {
		return total, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warnf("Total quantity cache read failed: %v", err)
	}

	total := s.store.GetTotalQuantity()
	if err := s.cache.SetTotalQuantity(ctx, total); err != nil {
		s.logger.Warnf("Failed to cache total quantity: %v", err)
	}

	return total, nil
}

// GetByID resolves a store member by its identifier, active or not.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	for _, p := range s.store.Products() {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Add builds a product from its spec, appends it to the store and persists it.
func (s *Service) Add(ctx context.Context, spec domain.ProductSpec) (domain.Product, error) {
	product, err := domain.BuildProduct(spec)
	if err != nil {
		s.logger.Error("Rejected invalid product spec", err)
		return nil, err
	}

	position := len(s.store.Products())
	s.store.AddProduct(product)

	if err := s.repo.Insert(ctx, product, position); err != nil {
		// Keep the in-memory store consistent with what is persisted.
		_ = s.store.RemoveProduct(product)
		s.logger.Error("Failed to persist product", err)
		return nil, err
	}

	s.invalidateCache(ctx)

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID(),
		"name":       product.Name(),
	}).Info("Product added to catalog")

	return product, nil
}

// Remove deletes a product's row and detaches it from the store. The row
// goes first: if the delete fails the store keeps the product and stays
// consistent with what is persisted.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product row", err)
		return err
	}

	if err := s.store.RemoveProduct(product); err != nil {
		return err
	}

	s.invalidateCache(ctx)

	s.logger.WithFields(map[string]interface{}{
		"product_id": id,
	}).Info("Product removed from catalog")

	return nil
}

func (s *Service) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate catalog cache: %v", err)
	}
}

func viewOf(number int, p domain.Product) ProductView {
	return ProductView{
		Number:   number,
		ID:       p.ID(),
		Name:     p.Name(),
		Price:    p.Price(),
		Quantity: p.GetQuantity(),
		Display:  p.Show(),
	}
}

func viewsFromSpecs(specs []domain.ProductSpec) ([]ProductView, error) {
	views := make([]ProductView, 0, len(specs))
	for i, spec := range specs {
		product, err := domain.BuildProduct(spec)
		if err != nil {
			return nil, err
		}
		views = append(views, viewOf(i+1, product))
	}
	return views, nil
}
