package checkout

import (
	"testing"

	"pharmapos/internal/models"
	"pharmapos/internal/payment"
	"pharmapos/internal/stock"

	"github.com/stretchr/testify/assert"
)

type recordingStage struct {
	called bool
	result bool
}

func (r *recordingStage) Process(*models.Sale) bool {
	r.called = true
	return r.result
}

func TestPipelineShortCircuits(t *testing.T) {
	first := &recordingStage{result: true}
	second := &recordingStage{result: false}
	third := &recordingStage{result: true}

	ok := NewPipeline(first, second, third).Run(models.NewSale("S1", "Alice"))

	assert.False(t, ok)
	assert.True(t, first.called)
	assert.True(t, second.called)
	assert.False(t, third.called)
}

func TestEmptyPipelineSucceeds(t *testing.T) {
	assert.True(t, NewPipeline().Run(models.NewSale("S1", "Alice")))
}

func newPipelineFixture(cash int64) (*Pipeline, *stock.Ledger, *payment.CashTill) {
	ledger := stock.NewLedger(
		models.Item{Name: "Paracetamol", Price: 6000},
		models.Item{Name: "Ibuprofen", Price: 4500},
	)
	till := payment.NewCashTill(cash)
	dispatcher := payment.NewDispatcher(till, payment.NewCreditLine(0), payment.NewWallet(0))
	dispatcher.SetMode(payment.ModeCash)
	return NewSalePipeline(ledger, dispatcher), ledger, till
}

func TestSalePipelineHappyPath(t *testing.T) {
	pipeline, _, till := newPipelineFixture(20000)

	sale := models.NewSale("S1", "Alice")
	sale.AddItem(models.Item{Name: "Paracetamol", Price: 6000})

	assert.True(t, pipeline.Run(sale))
	assert.Equal(t, int64(14000), till.Available())
}

func TestSalePipelineAbortsOnMissingStock(t *testing.T) {
	pipeline, _, till := newPipelineFixture(20000)

	sale := models.NewSale("S2", "Bob")
	sale.AddItem(models.Item{Name: "Paracetamol", Price: 6000})
	sale.AddItem(models.Item{Name: "Morphine", Price: 30000})

	assert.False(t, pipeline.Run(sale))
	// payment stage never ran
	assert.Equal(t, int64(20000), till.Available())
}

func TestSalePipelineAbortsOnPaymentFailure(t *testing.T) {
	pipeline, ledger, till := newPipelineFixture(5000)

	sale := models.NewSale("S3", "Carol")
	sale.AddItem(models.Item{Name: "Paracetamol", Price: 6000})

	assert.False(t, pipeline.Run(sale))
	assert.Equal(t, int64(5000), till.Available())
	// the pipeline does not touch the ledger
	assert.Equal(t, 2, ledger.Len())
}

func TestFinalizeStageAlwaysSucceeds(t *testing.T) {
	assert.True(t, NewFinalizeStage().Process(models.NewSale("S4", "Dan")))
}
