package stock

import (
	"testing"

	"pharmapos/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestLedgerHasIsCaseInsensitive(t *testing.T) {
	ledger := NewLedger(models.Item{Name: "Paracetamol", Price: 6000})

	assert.True(t, ledger.Has(models.Item{Name: "paracetamol"}))
	assert.True(t, ledger.HasName("PARACETAMOL"))
	assert.False(t, ledger.HasName("Ibuprofen"))
}

func TestLedgerIsABag(t *testing.T) {
	ledger := NewLedger()
	ledger.Add(models.Item{Name: "Amoxicillin", Price: 12000})
	ledger.Add(models.Item{Name: "amoxicillin", Price: 11000})
	assert.Equal(t, 2, ledger.Len())

	// removal takes the first match only
	ledger.Remove(models.Item{Name: "AMOXICILLIN"})
	assert.Equal(t, 1, ledger.Len())
	assert.True(t, ledger.HasName("Amoxicillin"))

	ledger.Remove(models.Item{Name: "Amoxicillin"})
	assert.False(t, ledger.HasName("Amoxicillin"))
}

func TestLedgerRemoveAbsentIsNoop(t *testing.T) {
	ledger := NewLedger(models.Item{Name: "Cetirizine"})
	ledger.Remove(models.Item{Name: "Loratadine"})
	assert.Equal(t, 1, ledger.Len())
}

func TestLevelTrackerNotifiesAtThreshold(t *testing.T) {
	tracker := NewLevelTracker(5)
	tracker.SetLevel("Insulin", 7)

	var gotProduct string
	var gotLevel int
	var calls int
	tracker.Subscribe(func(product string, level int) {
		gotProduct = product
		gotLevel = level
		calls++
	})

	tracker.Deduct("Insulin", 1) // 6, above threshold
	assert.Zero(t, calls)

	tracker.Deduct("Insulin", 1) // 5, at threshold
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Insulin", gotProduct)
	assert.Equal(t, 5, gotLevel)

	tracker.Deduct("insulin", 2) // 3, below threshold, case-insensitive key
	assert.Equal(t, 2, calls)
	assert.Equal(t, 3, gotLevel)
}

func TestLevelTrackerFansOutToAllListeners(t *testing.T) {
	tracker := NewLevelTracker(10)
	tracker.SetLevel("Gauze", 11)

	var first, second int
	tracker.Subscribe(func(string, int) { first++ })
	tracker.Subscribe(func(string, int) { second++ })

	tracker.Deduct("Gauze", 1)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestLevelTrackerChangeListenerFiresOnEveryDeduct(t *testing.T) {
	tracker := NewLevelTracker(2)
	tracker.SetLevel("Bandage", 10)

	var gotQty, gotLevel, changes, alerts int
	tracker.SubscribeChange(func(product string, qty, level int) {
		gotQty = qty
		gotLevel = level
		changes++
	})
	tracker.Subscribe(func(string, int) { alerts++ })

	// well above threshold: mirror moves, alert does not
	tracker.Deduct("Bandage", 3)
	assert.Equal(t, 1, changes)
	assert.Equal(t, 3, gotQty)
	assert.Equal(t, 7, gotLevel)
	assert.Zero(t, alerts)

	tracker.Deduct("Bandage", 5) // 2, at threshold: both fire
	assert.Equal(t, 2, changes)
	assert.Equal(t, 2, gotLevel)
	assert.Equal(t, 1, alerts)
}

func TestLevelTrackerChangeListenerSkipsUntracked(t *testing.T) {
	tracker := NewLevelTracker(5)

	var changes int
	tracker.SubscribeChange(func(string, int, int) { changes++ })

	tracker.Deduct("Unknown", 1)
	assert.Zero(t, changes)
}

func TestLevelTrackerIgnoresUntracked(t *testing.T) {
	tracker := NewLevelTracker(5)

	var calls int
	tracker.Subscribe(func(string, int) { calls++ })

	tracker.Deduct("Unknown", 1)
	assert.Zero(t, calls)
	assert.Zero(t, tracker.Level("Unknown"))
}

func TestLevelTrackerFloorsAtZero(t *testing.T) {
	tracker := NewLevelTracker(0)
	tracker.SetLevel("Syringe", 2)
	tracker.Deduct("Syringe", 5)
	assert.Equal(t, 0, tracker.Level("Syringe"))
}
