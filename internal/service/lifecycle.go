package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pharmapos/internal/models"
	"pharmapos/internal/util"
)

// Publisher is the slice of event publishing the service layer uses
type Publisher interface {
	PublishSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error
	PublishSaleFailed(ctx context.Context, event *models.SaleFailedEvent) error
	PublishOrderAdvanced(ctx context.Context, event *models.OrderAdvancedEvent) error
}

// LifecycleTracker advances orders through Pending, Paid, Delivered.
// Delivered is terminal: advancing it again is an idempotent no-op.
type LifecycleTracker struct {
	mu        sync.Mutex
	orders    map[string]*models.Order
	publisher Publisher
	logger    *zap.Logger
}

// NewLifecycleTracker creates a tracker. publisher may be nil; transitions
// are then not announced on the bus.
func NewLifecycleTracker(publisher Publisher) *LifecycleTracker {
	return &LifecycleTracker{
		orders:    make(map[string]*models.Order),
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Create registers a new order in the Pending state
func (t *LifecycleTracker) Create(id string, products ...string) *models.Order {
	order := models.NewOrder(id, products...)
	t.mu.Lock()
	t.orders[id] = order
	t.mu.Unlock()
	t.logger.Info("Order created", zap.String("order_id", id))
	return order
}

// Get returns the order with the given id
func (t *LifecycleTracker) Get(id string) (*models.Order, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	order, ok := t.orders[id]
	return order, ok
}

// Advance moves the order one step forward: Pending to Paid, Paid to
// Delivered. Advancing a Delivered order keeps it Delivered.
func (t *LifecycleTracker) Advance(ctx context.Context, id string) (models.OrderStatus, error) {
	t.mu.Lock()
	order, ok := t.orders[id]
	if !ok {
		t.mu.Unlock()
		return "", fmt.Errorf("order not found: %s", id)
	}

	prev := order.Status
	switch order.Status {
	case models.OrderStatusPending:
		order.Status = models.OrderStatusPaid
	case models.OrderStatusPaid:
		order.Status = models.OrderStatusDelivered
	case models.OrderStatusDelivered:
		// terminal, stays Delivered
	}
	order.UpdatedAt = time.Now()
	status := order.Status
	t.mu.Unlock()

	if status == prev {
		t.logger.Info("Order already delivered", zap.String("order_id", id))
		return status, nil
	}

	t.logger.Info("Order advanced",
		zap.String("order_id", id),
		zap.String("status", string(status)))
	util.OrdersAdvancedTotal.WithLabelValues(string(status)).Inc()

	if t.publisher != nil {
		event := &models.OrderAdvancedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderAdvanced,
				Timestamp: time.Now(),
			},
			OrderID: id,
			Status:  status,
		}
		if err := t.publisher.PublishOrderAdvanced(ctx, event); err != nil {
			t.logger.Error("Failed to publish OrderAdvanced event", zap.Error(err))
		}
	}

	return status, nil
}

// ForceState overrides the order's state without validating that the
// target is reachable. Used for corrective operations only.
func (t *LifecycleTracker) ForceState(id string, status models.OrderStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	order, ok := t.orders[id]
	if !ok {
		return fmt.Errorf("order not found: %s", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	t.logger.Warn("Order state forced",
		zap.String("order_id", id),
		zap.String("status", string(status)))
	return nil
}
