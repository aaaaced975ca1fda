package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pharmapos/internal/catalog"
	"pharmapos/internal/command"
	"pharmapos/internal/models"
	"pharmapos/internal/payment"
	"pharmapos/internal/util"
)

// Journal persists completed sales. The in-memory pipeline never depends
// on it; journal failures are logged, not surfaced.
type Journal interface {
	RecordSale(ctx context.Context, sale *models.Sale, receipt *models.Receipt, method string) error
}

// IdempotencyStore remembers sale request keys so retried requests are
// answered as duplicates instead of charged twice.
type IdempotencyStore interface {
	CheckIdempotencyKey(ctx context.Context, key string) (bool, error)
	SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// SaleService is the HTTP-facing session around the orchestrator: it builds
// carts from requests, runs the sale, registers the outcome in the command
// log, opens the fulfillment order, and journals the receipt.
type SaleService struct {
	orchestrator *SaleOrchestrator
	book         *command.SaleBook
	invoker      *command.Invoker
	orders       *LifecycleTracker
	journal      Journal
	publisher    Publisher
	idem         IdempotencyStore
	logger       *zap.Logger
}

// NewSaleService creates a sale service. journal, publisher and idem may
// be nil; the corresponding side effects are then skipped.
func NewSaleService(
	orchestrator *SaleOrchestrator,
	book *command.SaleBook,
	invoker *command.Invoker,
	orders *LifecycleTracker,
	journal Journal,
	publisher Publisher,
	idem IdempotencyStore,
) *SaleService {
	return &SaleService{
		orchestrator: orchestrator,
		book:         book,
		invoker:      invoker,
		orders:       orders,
		journal:      journal,
		publisher:    publisher,
		idem:         idem,
		logger:       util.GetLogger(),
	}
}

// SaleLineRequest is one cart line in a sale request
type SaleLineRequest struct {
	Name            string  `json:"name" binding:"required"`
	Kind            string  `json:"kind" binding:"required"`
	AuxInfo         string  `json:"aux_info,omitempty"`
	Price           int64   `json:"price" binding:"required"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
	TaxPercent      float64 `json:"tax_percent,omitempty"`
}

// PerformSaleRequest represents a request to run a sale
type PerformSaleRequest struct {
	SaleID         string            `json:"sale_id,omitempty"`
	Client         string            `json:"client" binding:"required"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	Items          []SaleLineRequest `json:"items" binding:"required,min=1"`
}

// Sale statuses reported to callers
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusFailed    = "FAILED"
	SaleStatusDuplicate = "DUPLICATE"
)

// PerformSaleResponse represents the outcome of a sale request
type PerformSaleResponse struct {
	SaleID        string          `json:"sale_id"`
	Status        string          `json:"status"`
	Total         int64           `json:"total,omitempty"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	Receipt       *models.Receipt `json:"receipt,omitempty"`
}

// PerformSale validates the cart, runs the orchestrator and applies the
// surrounding bookkeeping. Construction problems (unknown kind, empty
// name) come back as errors; a declined sale is a FAILED response.
func (s *SaleService) PerformSale(ctx context.Context, req *PerformSaleRequest) (*PerformSaleResponse, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.PerformSale")
	defer span.End()

	if req.IdempotencyKey != "" && s.idem != nil {
		seen, err := s.idem.CheckIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Warn("Idempotency check failed, proceeding", zap.Error(err))
		} else if seen {
			s.logger.Info("Duplicate sale request detected",
				zap.String("idempotency_key", req.IdempotencyKey))
			return &PerformSaleResponse{SaleID: req.SaleID, Status: SaleStatusDuplicate}, nil
		}
	}

	saleID := req.SaleID
	if saleID == "" {
		saleID = uuid.New().String()
	}

	sale := models.NewSale(saleID, req.Client)
	for _, line := range req.Items {
		item, err := catalog.NewItem(models.ItemKind(line.Kind), line.Name, line.AuxInfo, line.Price)
		if err != nil {
			util.SalesFailedTotal.WithLabelValues("invalid_item").Inc()
			return nil, err
		}
		item = catalog.WithDiscount(item, line.DiscountPercent)
		item = catalog.WithTax(item, line.TaxPercent)
		sale.AddItem(item)
	}

	mode := payment.ParseMode(req.PaymentMethod)
	receipt, ok := s.orchestrator.DoSale(ctx, sale, mode)
	if !ok {
		s.publishSaleFailed(ctx, saleID)
		return &PerformSaleResponse{SaleID: saleID, Status: SaleStatusFailed}, nil
	}

	if err := s.invoker.Run(command.NewRegisterSale(s.book, sale)); err != nil {
		s.logger.Error("Failed to register sale", zap.Error(err))
	}

	products := make([]string, 0, len(sale.Items))
	for _, item := range sale.Items {
		products = append(products, item.Name)
	}
	s.orders.Create(saleID, products...)

	if s.journal != nil {
		if err := s.journal.RecordSale(ctx, sale, receipt, mode.String()); err != nil {
			s.logger.Error("Failed to journal sale", zap.Error(err))
		}
	}

	s.publishSaleCompleted(ctx, sale, receipt, mode)

	if req.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.SetIdempotencyKey(ctx, req.IdempotencyKey, saleID, 24*time.Hour); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	return &PerformSaleResponse{
		SaleID:        saleID,
		Status:        SaleStatusCompleted,
		Total:         sale.Total,
		ReceiptNumber: receipt.Number,
		Receipt:       receipt,
	}, nil
}

// GetSale returns a registered sale by id
func (s *SaleService) GetSale(id string) (*models.Sale, bool) {
	return s.book.Get(id)
}

// CancelSale removes a registered sale through the command log
func (s *SaleService) CancelSale(id string) (bool, error) {
	cancel := command.NewCancelSale(s.book, id)
	if err := s.invoker.Run(cancel); err != nil {
		return false, err
	}
	return cancel.Found(), nil
}

// ReturnItem removes one named item from a registered sale through the
// command log
func (s *SaleService) ReturnItem(saleID, itemName string) (bool, error) {
	ret := command.NewReturnItem(s.book, saleID, itemName)
	if err := s.invoker.Run(ret); err != nil {
		return false, err
	}
	return ret.Found(), nil
}

// UndoLast undoes the most recent command, if any
func (s *SaleService) UndoLast() bool {
	return s.invoker.UndoLast()
}

// Orders exposes the lifecycle tracker
func (s *SaleService) Orders() *LifecycleTracker {
	return s.orders
}

func (s *SaleService) publishSaleCompleted(ctx context.Context, sale *models.Sale, receipt *models.Receipt, mode payment.Mode) {
	if s.publisher == nil {
		return
	}
	event := &models.SaleCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCompleted,
			Timestamp: time.Now(),
		},
		SaleID:        sale.ID,
		Client:        sale.Client,
		Total:         sale.Total,
		PaymentMethod: mode.String(),
		ReceiptNumber: receipt.Number,
		Lines:         receipt.Lines,
	}
	if err := s.publisher.PublishSaleCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleCompleted event", zap.Error(err))
	}
}

func (s *SaleService) publishSaleFailed(ctx context.Context, saleID string) {
	if s.publisher == nil {
		return
	}
	event := &models.SaleFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleFailed,
			Timestamp: time.Now(),
		},
		SaleID: saleID,
		Reason: "sale_aborted",
	}
	if err := s.publisher.PublishSaleFailed(ctx, event); err != nil {
		s.logger.Error("Failed to publish SaleFailed event", zap.Error(err))
	}
}
