package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pharmapos/internal/command"
	"pharmapos/internal/models"
	"pharmapos/internal/payment"
	"pharmapos/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceFixture(cash int64, pub Publisher) (*SaleService, *payment.CashTill, *stock.Ledger) {
	ledger := stock.NewLedger(
		models.Item{Name: "Paracetamol", Price: 6000, Kind: models.KindGeneric},
		models.Item{Name: "Ibuprofen", Price: 4500, Kind: models.KindBranded},
	)
	till := payment.NewCashTill(cash)
	dispatcher := payment.NewDispatcher(till, payment.NewCreditLine(0), payment.NewWallet(0))
	orchestrator := NewSaleOrchestrator(ledger, dispatcher, nil)

	svc := NewSaleService(
		orchestrator,
		command.NewSaleBook(),
		command.NewInvoker(),
		NewLifecycleTracker(pub),
		nil, // journal
		pub,
		nil, // idem
	)
	return svc, till, ledger
}

type fakeIdempotencyStore struct {
	keys map[string]string
}

func (f *fakeIdempotencyStore) CheckIdempotencyKey(_ context.Context, key string) (bool, error) {
	_, ok := f.keys[key]
	return ok, nil
}

func (f *fakeIdempotencyStore) SetIdempotencyKey(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.keys == nil {
		f.keys = make(map[string]string)
	}
	f.keys[key] = fmt.Sprint(value)
	return nil
}

func TestPerformSaleCompleted(t *testing.T) {
	pub := &capturingPublisher{}
	svc, till, ledger := newServiceFixture(20000, pub)

	resp, err := svc.PerformSale(context.Background(), &PerformSaleRequest{
		Client:        "Alice",
		PaymentMethod: "CASH",
		Items: []SaleLineRequest{
			{Name: "Paracetamol", Kind: "generic", AuxInfo: "ACME Labs", Price: 6000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, SaleStatusCompleted, resp.Status)
	assert.Equal(t, int64(6000), resp.Total)
	assert.NotEmpty(t, resp.ReceiptNumber)

	assert.Equal(t, int64(14000), till.Available())
	assert.False(t, ledger.HasName("Paracetamol"))

	// sale registered, order opened in Pending
	sale, ok := svc.GetSale(resp.SaleID)
	require.True(t, ok)
	assert.Equal(t, "Alice", sale.Client)

	order, ok := svc.Orders().Get(resp.SaleID)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	require.Len(t, pub.completed, 1)
	assert.Equal(t, resp.SaleID, pub.completed[0].SaleID)
}

func TestPerformSaleAppliesDiscountAndTax(t *testing.T) {
	svc, till, _ := newServiceFixture(20000, nil)

	resp, err := svc.PerformSale(context.Background(), &PerformSaleRequest{
		Client:        "Bob",
		PaymentMethod: "CASH",
		Items: []SaleLineRequest{
			// 6000 -> 25% off -> 4500 -> +10% tax -> 4950
			{Name: "Paracetamol", Kind: "generic", Price: 6000, DiscountPercent: 25, TaxPercent: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4950), resp.Total)
	assert.Equal(t, int64(20000-4950), till.Available())
}

func TestPerformSaleInvalidKindIsError(t *testing.T) {
	svc, till, ledger := newServiceFixture(20000, nil)

	_, err := svc.PerformSale(context.Background(), &PerformSaleRequest{
		Client:        "Carol",
		PaymentMethod: "CASH",
		Items: []SaleLineRequest{
			{Name: "Arnica", Kind: "homeopathic", Price: 1000},
		},
	})
	assert.Error(t, err)
	assert.Equal(t, int64(20000), till.Available())
	assert.Equal(t, 2, ledger.Len())
}

func TestPerformSaleDeclinedIsFailedResponse(t *testing.T) {
	pub := &capturingPublisher{}
	svc, till, ledger := newServiceFixture(1000, pub)

	resp, err := svc.PerformSale(context.Background(), &PerformSaleRequest{
		Client:        "Dan",
		PaymentMethod: "CASH",
		Items: []SaleLineRequest{
			{Name: "Paracetamol", Kind: "generic", Price: 6000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, SaleStatusFailed, resp.Status)
	assert.Equal(t, int64(1000), till.Available())
	assert.Equal(t, 2, ledger.Len())

	// nothing registered
	_, ok := svc.GetSale(resp.SaleID)
	assert.False(t, ok)
	require.Len(t, pub.failed, 1)
}

func TestPerformSaleRetryIsDuplicate(t *testing.T) {
	idem := &fakeIdempotencyStore{}
	ledger := stock.NewLedger(
		models.Item{Name: "Paracetamol", Price: 6000, Kind: models.KindGeneric},
		models.Item{Name: "Paracetamol", Price: 6000, Kind: models.KindGeneric},
	)
	till := payment.NewCashTill(20000)
	dispatcher := payment.NewDispatcher(till, payment.NewCreditLine(0), payment.NewWallet(0))
	svc := NewSaleService(
		NewSaleOrchestrator(ledger, dispatcher, nil),
		command.NewSaleBook(),
		command.NewInvoker(),
		NewLifecycleTracker(nil),
		nil,
		nil,
		idem,
	)

	req := &PerformSaleRequest{
		Client:         "Grace",
		PaymentMethod:  "CASH",
		IdempotencyKey: "terminal-1-txn-42",
		Items: []SaleLineRequest{
			{Name: "Paracetamol", Kind: "generic", Price: 6000},
		},
	}

	first, err := svc.PerformSale(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SaleStatusCompleted, first.Status)
	assert.Equal(t, int64(14000), till.Available())
	assert.Equal(t, first.SaleID, idem.keys["terminal-1-txn-42"])

	// retry with the same key: no second charge, no second removal
	second, err := svc.PerformSale(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SaleStatusDuplicate, second.Status)
	assert.Equal(t, int64(14000), till.Available())
	assert.Equal(t, 1, ledger.Len())
}

func TestPerformSaleFailureStoresNoIdempotencyKey(t *testing.T) {
	idem := &fakeIdempotencyStore{}
	till := payment.NewCashTill(1000)
	dispatcher := payment.NewDispatcher(till, payment.NewCreditLine(0), payment.NewWallet(0))
	ledger := stock.NewLedger(models.Item{Name: "Paracetamol", Price: 6000, Kind: models.KindGeneric})
	svc := NewSaleService(
		NewSaleOrchestrator(ledger, dispatcher, nil),
		command.NewSaleBook(),
		command.NewInvoker(),
		NewLifecycleTracker(nil),
		nil,
		nil,
		idem,
	)

	resp, err := svc.PerformSale(context.Background(), &PerformSaleRequest{
		Client:         "Heidi",
		PaymentMethod:  "CASH",
		IdempotencyKey: "terminal-1-txn-43",
		Items: []SaleLineRequest{
			{Name: "Paracetamol", Kind: "generic", Price: 6000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, SaleStatusFailed, resp.Status)
	assert.Empty(t, idem.keys)
}

func TestCancelAndUndoThroughService(t *testing.T) {
	svc, _, _ := newServiceFixture(20000, nil)

	resp, err := svc.PerformSale(context.Background(), &PerformSaleRequest{
		Client:        "Eve",
		PaymentMethod: "CASH",
		Items: []SaleLineRequest{
			{Name: "Ibuprofen", Kind: "branded", AuxInfo: "BrandCo", Price: 4500},
		},
	})
	require.NoError(t, err)

	found, err := svc.CancelSale(resp.SaleID)
	require.NoError(t, err)
	assert.True(t, found)
	_, ok := svc.GetSale(resp.SaleID)
	assert.False(t, ok)

	// cancel is one-way: undo is a diagnostic non-op
	assert.True(t, svc.UndoLast())
	_, ok = svc.GetSale(resp.SaleID)
	assert.False(t, ok)
}

func TestReturnItemThroughService(t *testing.T) {
	svc, _, _ := newServiceFixture(20000, nil)

	resp, err := svc.PerformSale(context.Background(), &PerformSaleRequest{
		Client:        "Frank",
		PaymentMethod: "CASH",
		Items: []SaleLineRequest{
			{Name: "Paracetamol", Kind: "generic", Price: 6000},
			{Name: "Ibuprofen", Kind: "branded", Price: 4500},
		},
	})
	require.NoError(t, err)

	found, err := svc.ReturnItem(resp.SaleID, "ibuprofen")
	require.NoError(t, err)
	assert.True(t, found)

	sale, ok := svc.GetSale(resp.SaleID)
	require.True(t, ok)
	assert.Len(t, sale.Items, 1)
	assert.Equal(t, int64(6000), sale.Total)
}
