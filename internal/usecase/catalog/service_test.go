package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/elis-elis/bestbuy/internal/domain"
	"github.com/elis-elis/bestbuy/internal/pkg/logger"
)

// MockCatalogRepository is a mock implementation of domain.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) LoadAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) Insert(ctx context.Context, p domain.Product, position int) error {
	args := m.Called(ctx, p, position)
	return args.Error(0)
}

func (m *MockCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveQuantities(ctx context.Context, products []domain.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetActiveCatalog(ctx context.Context) ([]domain.ProductSpec, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductSpec), args.Error(1)
}

func (m *MockCache) SetActiveCatalog(ctx context.Context, specs []domain.ProductSpec) error {
	args := m.Called(ctx, specs)
	return args.Error(0)
}

func (m *MockCache) GetTotalQuantity(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCache) SetTotalQuantity(ctx context.Context, total int) error {
	args := m.Called(ctx, total)
	return args.Error(0)
}

func (m *MockCache) InvalidateCatalog(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newService(t *testing.T, products ...domain.Product) (*Service, *MockCatalogRepository, *MockCache) {
	t.Helper()

	service, repo, cache, _ := newServiceWithStore(t, products...)
	return service, repo, cache
}

func newServiceWithStore(t *testing.T, products ...domain.Product) (*Service, *MockCatalogRepository, *MockCache, *domain.Store) {
	t.Helper()

	repo := new(MockCatalogRepository)
	cache := new(MockCache)
	store := domain.NewStore(products)
	service := NewService(store, repo, cache, logger.New("test"))
	return service, repo, cache, store
}

func TestService_ListActive_CacheMiss(t *testing.T) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)
	soldOut, err := domain.NewProduct("Google Pixel 7", 500, 0)
	require.NoError(t, err)

	service, _, cache := newService(t, macbook, soldOut)

	cache.On("GetActiveCatalog", mock.Anything).Return(nil, domain.ErrNotFound)
	cache.On("SetActiveCatalog", mock.Anything, mock.Anything).Return(nil)

	views, err := service.ListActive(context.Background())
	require.NoError(t, err)

	// Only the active product is listed, numbered from 1.
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].Number)
	assert.Equal(t, macbook.ID(), views[0].ID)
	assert.Equal(t, "MacBook Air M2, price: 1450, quantity: 100", views[0].Display)

	cache.AssertExpectations(t)
}

func TestService_ListActive_CacheHit(t *testing.T) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)

	service, _, cache := newService(t, macbook)

	cached := []domain.ProductSpec{domain.SpecOf(macbook)}
	cache.On("GetActiveCatalog", mock.Anything).Return(cached, nil)

	views, err := service.ListActive(context.Background())
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, macbook.ID(), views[0].ID)
	cache.AssertNotCalled(t, "SetActiveCatalog")
}

func TestService_ListActive_CacheErrorFallsThrough(t *testing.T) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)

	service, _, cache := newService(t, macbook)

	cache.On("GetActiveCatalog", mock.Anything).Return(nil, errors.New("redis down"))
	cache.On("SetActiveCatalog", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	views, err := service.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestService_ListActive_WrappedCacheMiss(t *testing.T) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)

	service, _, cache := newService(t, macbook)

	// Cache layers may wrap the sentinel; it still counts as a miss.
	wrapped := fmt.Errorf("catalog lookup: %w", domain.ErrNotFound)
	cache.On("GetActiveCatalog", mock.Anything).Return(nil, wrapped)
	cache.On("SetActiveCatalog", mock.Anything, mock.Anything).Return(nil)

	views, err := service.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 1)

	cache.AssertExpectations(t)
}

func TestService_TotalQuantity(t *testing.T) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)
	earbuds, err := domain.NewProduct("Bose QuietComfort Earbuds", 250, 500)
	require.NoError(t, err)

	service, _, cache := newService(t, macbook, earbuds)

	cache.On("GetTotalQuantity", mock.Anything).Return(0, domain.ErrNotFound).Once()
	cache.On("SetTotalQuantity", mock.Anything, 600).Return(nil).Once()

	total, err := service.TotalQuantity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 600, total)

	cache.On("GetTotalQuantity", mock.Anything).Return(600, nil).Once()
	total, err = service.TotalQuantity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 600, total)

	cache.AssertExpectations(t)
}

func TestService_GetByID(t *testing.T) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)
	macbook.Deactivate()

	service, _, _ := newService(t, macbook)

	// Inactive members are still resolvable by ID.
	found, err := service.GetByID(context.Background(), macbook.ID())
	require.NoError(t, err)
	assert.Same(t, macbook, found)

	_, err = service.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Add(t *testing.T) {
	service, repo, cache := newService(t)

	repo.On("Insert", mock.Anything, mock.Anything, 0).Return(nil)
	cache.On("InvalidateCatalog", mock.Anything).Return(nil)

	product, err := service.Add(context.Background(), domain.ProductSpec{
		Kind:     domain.KindStandard,
		Name:     "Google Pixel 7",
		Price:    500,
		Quantity: 250,
	})
	require.NoError(t, err)

	assert.Equal(t, "Google Pixel 7", product.Name())
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Add_InvalidSpec(t *testing.T) {
	service, repo, _ := newService(t)

	_, err := service.Add(context.Background(), domain.ProductSpec{
		Kind:  domain.KindStandard,
		Name:  "",
		Price: 500,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	repo.AssertNotCalled(t, "Insert")
}

func TestService_Add_PersistFailureRollsBack(t *testing.T) {
	service, repo, _, store := newServiceWithStore(t)

	repo.On("Insert", mock.Anything, mock.Anything, 0).Return(errors.New("db down"))

	_, err := service.Add(context.Background(), domain.ProductSpec{
		Kind:     domain.KindStandard,
		Name:     "Google Pixel 7",
		Price:    500,
		Quantity: 250,
	})
	require.Error(t, err)

	// The unpersisted product must not linger in the in-memory store.
	assert.Empty(t, store.Products())
}

func TestService_Remove(t *testing.T) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)

	service, repo, cache := newService(t, macbook)

	repo.On("Delete", mock.Anything, macbook.ID()).Return(nil)
	cache.On("InvalidateCatalog", mock.Anything).Return(nil)

	require.NoError(t, service.Remove(context.Background(), macbook.ID()))

	_, err = service.GetByID(context.Background(), macbook.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestService_Remove_DeleteFailureKeepsProduct(t *testing.T) {
	macbook, err := domain.NewProduct("MacBook Air M2", 1450, 100)
	require.NoError(t, err)

	service, repo, cache, store := newServiceWithStore(t, macbook)

	repo.On("Delete", mock.Anything, macbook.ID()).Return(errors.New("db down"))

	err = service.Remove(context.Background(), macbook.ID())
	require.Error(t, err)

	// The row is still persisted, so the store must keep the product too.
	assert.Contains(t, store.Products(), macbook)
	cache.AssertNotCalled(t, "InvalidateCatalog")
}

func TestService_Remove_Unknown(t *testing.T) {
	service, repo, _ := newService(t)

	err := service.Remove(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Delete")
}
