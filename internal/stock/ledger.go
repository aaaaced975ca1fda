package stock

import (
	"strings"
	"sync"

	"pharmapos/internal/models"
)

// Ledger tracks which named products are currently sellable. It is a bag
// keyed loosely by case-insensitive name: two distinct items with the same
// name may coexist until one copy is removed. It holds presence only;
// quantity alerts are the LevelTracker's job.
type Ledger struct {
	mu    sync.Mutex
	items []models.Item
}

// NewLedger creates a ledger seeded with the given items
func NewLedger(items ...models.Item) *Ledger {
	l := &Ledger{}
	l.items = append(l.items, items...)
	return l
}

// Add inserts an item unconditionally, duplicates by name included
func (l *Ledger) Add(item models.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
}

// Has reports whether any entry matches the item's name, case-insensitively
func (l *Ledger) Has(item models.Item) bool {
	return l.HasName(item.Name)
}

// HasName reports whether any entry matches the name, case-insensitively
func (l *Ledger) HasName(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if strings.EqualFold(it.Name, name) {
			return true
		}
	}
	return false
}

// Remove deletes the first entry matching the item's name. Removing an
// absent item is a no-op, not an error.
func (l *Ledger) Remove(item models.Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if strings.EqualFold(it.Name, item.Name) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of entries currently held
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Items returns a snapshot of the current entries
func (l *Ledger) Items() []models.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Item, len(l.items))
	copy(out, l.items)
	return out
}
