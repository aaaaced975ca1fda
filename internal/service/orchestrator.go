package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pharmapos/internal/models"
	"pharmapos/internal/payment"
	"pharmapos/internal/stock"
	"pharmapos/internal/util"
)

// SaleOrchestrator performs check-then-commit across stock and payment for
// one sale: verify every line against the ledger, charge the total, and only
// then remove stock and emit a receipt. A failed sale leaves the ledger and
// every funding source untouched.
type SaleOrchestrator struct {
	ledger     *stock.Ledger
	dispatcher *payment.Dispatcher
	levels     *stock.LevelTracker
	logger     *zap.Logger
}

// NewSaleOrchestrator creates an orchestrator over the ledger and dispatcher.
// levels may be nil when quantity alerting is not wired.
func NewSaleOrchestrator(ledger *stock.Ledger, dispatcher *payment.Dispatcher, levels *stock.LevelTracker) *SaleOrchestrator {
	return &SaleOrchestrator{
		ledger:     ledger,
		dispatcher: dispatcher,
		levels:     levels,
		logger:     util.GetLogger(),
	}
}

// DoSale runs the sale to completion. Stock verification strictly precedes
// payment, which strictly precedes stock removal and receipt emission. On
// failure the receipt is nil and nothing has been mutated.
func (o *SaleOrchestrator) DoSale(ctx context.Context, sale *models.Sale, mode payment.Mode) (*models.Receipt, bool) {
	_, span := util.StartSpan(ctx, "SaleOrchestrator.DoSale")
	defer span.End()

	start := time.Now()
	defer func() {
		util.SaleProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	for _, item := range sale.Items {
		if !o.ledger.Has(item) {
			o.logger.Warn("Sale aborted: item out of stock",
				zap.String("sale_id", sale.ID),
				zap.String("item", item.Name))
			util.SalesFailedTotal.WithLabelValues("missing_stock").Inc()
			return nil, false
		}
	}

	o.dispatcher.SetMode(mode)
	method := o.dispatcher.DisplayName()
	util.PaymentAttemptsTotal.WithLabelValues(method).Inc()

	if !o.dispatcher.Charge(sale.Total) {
		o.logger.Warn("Sale aborted: charge declined",
			zap.String("sale_id", sale.ID),
			zap.String("method", method),
			zap.Int64("total", sale.Total))
		util.PaymentFailedTotal.WithLabelValues(method).Inc()
		util.SalesFailedTotal.WithLabelValues("payment_declined").Inc()
		return nil, false
	}

	// Commit point. Removal is best-effort per item; step 1 already vouched
	// for presence and nothing else mutates the ledger inside one session.
	for _, item := range sale.Items {
		o.ledger.Remove(item)
		if o.levels != nil {
			o.levels.Deduct(item.Name, 1)
		}
	}

	receipt := NewReceipt(sale)
	o.logger.Info("Sale completed",
		zap.String("sale_id", sale.ID),
		zap.String("client", sale.Client),
		zap.String("method", method),
		zap.String("receipt", receipt.Number),
		zap.Int64("total", sale.Total))

	util.SalesCompletedTotal.Inc()
	util.SaleAmountTotal.WithLabelValues(method).Add(float64(sale.Total))

	return receipt, true
}
