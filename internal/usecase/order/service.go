package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/elis-elis/bestbuy/internal/domain"
	"github.com/elis-elis/bestbuy/internal/pkg/logger"
	pkgvalidator "github.com/elis-elis/bestbuy/internal/pkg/validator"
)

// Cache is the slice of the catalog cache the order flow needs: every
// fulfilled line changes stock, so the catalog snapshot must be dropped.
type Cache interface {
	InvalidateCatalog(ctx context.Context) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// LineRequest is one requested order line, by product identifier.
type LineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

// Result reports how an order ended. Orders are applied line by line, so a
// failed order may still have applied some leading lines; Status and
// AppliedLines tell the caller exactly how far it got.
type Result struct {
	OrderID      uuid.UUID `json:"order_id"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"`
	AppliedLines int       `json:"applied_lines"`
}

// OrderEvent is the message published after each fulfilled order
type OrderEvent struct {
	EventType string                   `json:"event_type"`
	Timestamp time.Time                `json:"timestamp"`
	OrderID   uuid.UUID                `json:"order_id"`
	Total     float64                  `json:"total"`
	Status    string                   `json:"status"`
	Lines     []domain.OrderLineRecord `json:"lines"`
}

// Service fulfills orders against the in-memory store and persists the
// outcome. A mutex serializes orders: the store assumes one logical caller.
type Service struct {
	store       *domain.Store
	catalogRepo domain.CatalogRepository
	orderRepo   domain.OrderRepository
	cache       Cache
	publisher   EventPublisher
	validate    *validator.Validate
	logger      *logger.Logger
	mu          sync.Mutex
}

// NewService creates a new order service
func NewService(
	store *domain.Store,
	catalogRepo domain.CatalogRepository,
	orderRepo domain.OrderRepository,
	cache Cache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		store:       store,
		catalogRepo: catalogRepo,
		orderRepo:   orderRepo,
		cache:       cache,
		publisher:   publisher,
		validate:    pkgvalidator.Get(),
		logger:      log,
	}
}

// Place fulfills the requested lines in order.
//
// Lines are applied eagerly: when a line fails, the earlier lines stay
// applied and are persisted, recorded and published as a partially applied
// order. In that case Place returns both a non-nil Result describing the
// applied prefix and the line's error.
func (s *Service) Place(ctx context.Context, lines []LineRequest) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.resolve(lines)
	if err != nil {
		return nil, err
	}

	total, applied, orderErr := s.store.OrderApplied(resolved)
	if orderErr != nil && applied == 0 {
		s.logger.WithFields(map[string]interface{}{
			"lines": len(lines),
		}).Warnf("Order rejected: %v", orderErr)
		return nil, orderErr
	}

	record := &domain.OrderRecord{
		ID:           uuid.New(),
		Total:        total,
		Status:       domain.OrderStatusCompleted,
		AppliedLines: applied,
		CreatedAt:    time.Now(),
	}
	if orderErr != nil {
		record.Status = domain.OrderStatusPartial
	}

	touched := make([]domain.Product, 0, applied)
	seen := make(map[uuid.UUID]bool, applied)
	for _, line := range resolved[:applied] {
		record.Lines = append(record.Lines, domain.OrderLineRecord{
			OrderID:   record.ID,
			ProductID: line.Product.ID(),
			Quantity:  line.Quantity,
			LineTotal: domain.LinePrice(line.Product, line.Quantity),
		})
		if !seen[line.Product.ID()] {
			seen[line.Product.ID()] = true
			touched = append(touched, line.Product)
		}
	}

	if err := s.catalogRepo.SaveQuantities(ctx, touched); err != nil {
		s.logger.Error("Failed to persist stock levels after order", err)
	}
	if err := s.orderRepo.Record(ctx, record); err != nil {
		s.logger.Error("Failed to record order", err)
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate catalog cache: %v", err)
	}
	s.publishEvent(ctx, record)

	result := &Result{
		OrderID:      record.ID,
		Total:        record.Total,
		Status:       record.Status,
		AppliedLines: record.AppliedLines,
	}

	s.logger.WithFields(map[string]interface{}{
		"order_id":      record.ID,
		"total":         record.Total,
		"status":        record.Status,
		"applied_lines": record.AppliedLines,
	}).Info("Order processed")

	return result, orderErr
}

// Preview quotes the requested lines without mutating any stock.
func (s *Service) Preview(ctx context.Context, lines []LineRequest) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.resolve(lines)
	if err != nil {
		return 0, err
	}

	return s.store.PreviewOrder(resolved)
}

// resolve validates the raw lines and maps product IDs to store members.
func (s *Service) resolve(lines []LineRequest) ([]domain.OrderLine, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: order has no lines", domain.ErrInvalidArgument)
	}

	members := s.store.Products()
	byID := make(map[uuid.UUID]domain.Product, len(members))
	for _, p := range members {
		byID[p.ID()] = p
	}

	resolved := make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		if err := s.validate.Struct(line); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s is not in store", domain.ErrNotFound, line.ProductID)
		}
		resolved = append(resolved, domain.OrderLine{Product: product, Quantity: line.Quantity})
	}

	return resolved, nil
}

func (s *Service) publishEvent(ctx context.Context, record *domain.OrderRecord) {
	event := OrderEvent{
		EventType: "order.placed",
		Timestamp: time.Now(),
		OrderID:   record.ID,
		Total:     record.Total,
		Status:    record.Status,
		Lines:     record.Lines,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal order event", err)
		return
	}

	if err := s.publisher.Publish(ctx, "orders.events", data); err != nil {
		s.logger.Warnf("Failed to publish order event: %v", err)
	}
}
