package checkout

import (
	"go.uber.org/zap"

	"pharmapos/internal/models"
	"pharmapos/internal/stock"
	"pharmapos/internal/util"
)

// Stage is one admission check in the sale pipeline. Process returns
// false to abort the pipeline; later stages are not invoked.
type Stage interface {
	Process(sale *models.Sale) bool
}

// Pipeline runs stages in order, short-circuiting on the first failure.
// An empty pipeline trivially succeeds.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds a pipeline over the given stages
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run processes the sale through every stage, fail-fast
func (p *Pipeline) Run(sale *models.Sale) bool {
	for _, stage := range p.stages {
		if !stage.Process(sale) {
			return false
		}
	}
	return true
}

// NewSalePipeline composes the standard admission order:
// stock availability, then payment settlement, then finalization.
func NewSalePipeline(ledger *stock.Ledger, charger Charger) *Pipeline {
	return NewPipeline(
		NewStockStage(ledger),
		NewPaymentStage(charger),
		NewFinalizeStage(),
	)
}

// Charger is the payment capability the pipeline settles against
type Charger interface {
	Charge(amount int64) bool
	DisplayName() string
}

// StockStage requires every line item to be present in the ledger
type StockStage struct {
	ledger *stock.Ledger
	logger *zap.Logger
}

// NewStockStage creates the stock availability stage
func NewStockStage(ledger *stock.Ledger) *StockStage {
	return &StockStage{ledger: ledger, logger: util.GetLogger()}
}

// Process aborts on the first item missing from stock
func (s *StockStage) Process(sale *models.Sale) bool {
	for _, item := range sale.Items {
		if !s.ledger.Has(item) {
			s.logger.Warn("Item unavailable in stock",
				zap.String("sale_id", sale.ID),
				zap.String("item", item.Name))
			return false
		}
	}
	return true
}

// PaymentStage settles the sale total through the charger. Re-running the
// stage attempts a fresh charge; callers re-run the pipeline only when a
// second charge attempt is intended.
type PaymentStage struct {
	charger Charger
	logger  *zap.Logger
}

// NewPaymentStage creates the payment settlement stage
func NewPaymentStage(charger Charger) *PaymentStage {
	return &PaymentStage{charger: charger, logger: util.GetLogger()}
}

// Process charges the sale total, aborting the pipeline on failure
func (s *PaymentStage) Process(sale *models.Sale) bool {
	if !s.charger.Charge(sale.Total) {
		s.logger.Warn("Payment declined",
			zap.String("sale_id", sale.ID),
			zap.String("method", s.charger.DisplayName()),
			zap.Int64("total", sale.Total))
		return false
	}
	s.logger.Info("Payment settled",
		zap.String("sale_id", sale.ID),
		zap.String("method", s.charger.DisplayName()),
		zap.Int64("total", sale.Total))
	return true
}

// FinalizeStage is the terminal stage; it always succeeds
type FinalizeStage struct {
	logger *zap.Logger
}

// NewFinalizeStage creates the terminal stage
func NewFinalizeStage() *FinalizeStage {
	return &FinalizeStage{logger: util.GetLogger()}
}

// Process reports the sale as admitted
func (s *FinalizeStage) Process(sale *models.Sale) bool {
	s.logger.Info("Sale admitted", zap.String("sale_id", sale.ID))
	return true
}
