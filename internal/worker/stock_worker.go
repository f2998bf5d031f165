package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/elis-elis/bestbuy/internal/pkg/logger"
	"github.com/google/uuid"
)

const (
	// Debounce window - collect events touching the same product within this duration
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// OrderEvent represents an order event from NATS
type OrderEvent struct {
	EventType string      `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	OrderID   uuid.UUID   `json:"order_id"`
	Lines     []OrderLine `json:"lines"`
}

// OrderLine is a single fulfilled line within an order event
type OrderLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// StockWorker processes order events and checks stock levels asynchronously
type StockWorker struct {
	checker *Checker
	logger  *logger.Logger

	// Debouncing state
	mu            sync.Mutex
	pendingChecks map[uuid.UUID]*pendingCheck
	shutdownCh    chan struct{}
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

type pendingCheck struct {
	productID uuid.UUID
	timestamp time.Time
	timer     *time.Timer
}

// NewStockWorker creates a new stock alert worker
func NewStockWorker(checker *Checker, logger *logger.Logger) *StockWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &StockWorker{
		checker:       checker,
		logger:        logger,
		pendingChecks: make(map[uuid.UUID]*pendingCheck),
		shutdownCh:    make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// HandleEvent processes an order event
func (w *StockWorker) HandleEvent(data []byte) error {
	var event OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.WithFields(map[string]any{
			"error": err.Error(),
		}).Error("Failed to unmarshal order event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	w.logger.WithFields(map[string]any{
		"event_type": event.EventType,
		"order_id":   event.OrderID.String(),
		"lines":      len(event.Lines),
		"timestamp":  event.Timestamp,
	}).Info("Received order event")

	// Schedule a stock check per touched product with debouncing
	for _, line := range event.Lines {
		w.scheduleCheck(line.ProductID, event.Timestamp)
	}

	return nil
}

// scheduleCheck implements debouncing logic
// Multiple orders touching the same product within the debounce window
// result in a single stock check
func (w *StockWorker) scheduleCheck(productID uuid.UUID, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Check if already shutting down
	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingChecks[productID]

	// If we have a pending check, keep only the newest event
	if found {
		// Ignore stale events
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]any{
				"product_id":  productID.String(),
				"existing_ts": existing.timestamp,
				"event_ts":    timestamp,
			}).Debug("Ignoring stale event")
			return
		}

		// Cancel existing timer (we'll create a new one)
		existing.timer.Stop()
		w.logger.WithFields(map[string]any{
			"product_id": productID.String(),
		}).Debug("Debouncing: resetting timer for product")
	} else {
		// New product, increment wait group
		w.wg.Add(1)
	}

	// Create new timer for debounced check
	timer := time.AfterFunc(debounceWindow, func() {
		w.processCheck(productID)
	})

	w.pendingChecks[productID] = &pendingCheck{
		productID: productID,
		timestamp: timestamp,
		timer:     timer,
	}
}

// processCheck executes the stock check with retry logic
func (w *StockWorker) processCheck(productID uuid.UUID) {
	defer w.wg.Done()

	w.mu.Lock()
	delete(w.pendingChecks, productID)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"product_id": productID.String(),
	}).Info("Checking stock level")

	// Retry loop with exponential backoff
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"product_id": productID.String(),
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying stock check")

			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		// Create context with timeout for each attempt
		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.checker.Check(ctx, productID)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]any{
			"product_id": productID.String(),
			"attempt":    attempt + 1,
			"error":      err.Error(),
		}).Error("Failed to check stock level", err)
	}

	// All retries exhausted
	w.logger.WithFields(map[string]any{
		"product_id":  productID.String(),
		"max_retries": maxRetries,
		"error":       lastErr.Error(),
	}).Error("Stock check failed after all retries", lastErr)
}

// Shutdown gracefully shuts down the worker
// Cancels pending timers and waits for in-flight checks to complete
func (w *StockWorker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down stock worker...")

	// Signal shutdown to prevent new checks
	close(w.shutdownCh)

	// Cancel context to stop retries
	w.cancel()

	// Cancel all pending timers
	w.mu.Lock()
	pendingCount := len(w.pendingChecks)
	for _, check := range w.pendingChecks {
		check.timer.Stop()
		w.wg.Done() // Decrement counter for cancelled checks
	}
	w.pendingChecks = make(map[uuid.UUID]*pendingCheck)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"cancelled_checks": pendingCount,
	}).Info("Cancelled pending checks")

	// Wait for in-flight checks to complete or context timeout
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight checks completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of pending checks (used for monitoring/testing)
func (w *StockWorker) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingChecks)
}
