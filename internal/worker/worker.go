package worker

import (
	"context"

	"go.uber.org/zap"

	"pharmapos/internal/broker"
	"pharmapos/internal/models"
	"pharmapos/internal/service"
	"pharmapos/internal/util"
)

// OrderWorker advances fulfillment orders in response to sale events:
// a completed sale moves its order from Pending to Paid.
type OrderWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	orders       *service.LifecycleTracker
	logger       *zap.Logger
}

// NewOrderWorker creates a new order worker
func NewOrderWorker(consumer *broker.Consumer, orders *service.LifecycleTracker) *OrderWorker {
	w := &OrderWorker{
		consumer: consumer,
		orders:   orders,
		logger:   util.NamedLogger("order-worker"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnSaleCompleted(w.handleSaleCompleted)
	w.eventHandler = eventHandler

	return w
}

func (w *OrderWorker) handleSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error {
	status, err := w.orders.Advance(ctx, event.SaleID)
	if err != nil {
		w.logger.Warn("No order for completed sale",
			zap.String("sale_id", event.SaleID),
			zap.Error(err))
		return nil
	}
	w.logger.Info("Order advanced on sale completion",
		zap.String("order_id", event.SaleID),
		zap.String("status", string(status)))
	return nil
}

// Start starts the worker
func (w *OrderWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OrderWorker) Stop() error {
	w.logger.Info("Stopping order worker")
	return w.consumer.Close()
}

// DeliveryWorker advances paid orders to Delivered.
type DeliveryWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	orders       *service.LifecycleTracker
	logger       *zap.Logger
}

// NewDeliveryWorker creates a new delivery worker
func NewDeliveryWorker(consumer *broker.Consumer, orders *service.LifecycleTracker) *DeliveryWorker {
	w := &DeliveryWorker{
		consumer: consumer,
		orders:   orders,
		logger:   util.NamedLogger("delivery-worker"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderAdvanced(w.handleOrderAdvanced)
	w.eventHandler = eventHandler

	return w
}

func (w *DeliveryWorker) handleOrderAdvanced(ctx context.Context, event *models.OrderAdvancedEvent) error {
	if event.Status != models.OrderStatusPaid {
		return nil
	}

	status, err := w.orders.Advance(ctx, event.OrderID)
	if err != nil {
		w.logger.Warn("No order to deliver",
			zap.String("order_id", event.OrderID),
			zap.Error(err))
		return nil
	}
	w.logger.Info("Order delivered",
		zap.String("order_id", event.OrderID),
		zap.String("status", string(status)))
	return nil
}

// Start starts the delivery worker
func (w *DeliveryWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting delivery worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the delivery worker
func (w *DeliveryWorker) Stop() error {
	w.logger.Info("Stopping delivery worker")
	return w.consumer.Close()
}
