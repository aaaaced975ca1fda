package stock

import (
	"strings"
	"sync"
)

// Listener receives low-stock notifications
type Listener func(product string, level int)

// ChangeListener receives every level movement: the quantity deducted
// and the resulting level. Mirrors that must stay in step with the
// tracker (gauges, shared caches) hang off this rather than the
// threshold-gated Listener.
type ChangeListener func(product string, qty, level int)

// LevelTracker maintains quantity counts per product and fans out a
// notification to registered listeners whenever a product drops to or
// below the alert threshold. This is a separate structure from the
// presence Ledger used by sale validation.
type LevelTracker struct {
	mu              sync.Mutex
	levels          map[string]int
	threshold       int
	listeners       []Listener
	changeListeners []ChangeListener
}

// NewLevelTracker creates a tracker alerting at or below threshold
func NewLevelTracker(threshold int) *LevelTracker {
	return &LevelTracker{
		levels:    make(map[string]int),
		threshold: threshold,
	}
}

// Subscribe registers a listener for low-stock notifications
func (t *LevelTracker) Subscribe(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// SubscribeChange registers a listener notified on every deduction
func (t *LevelTracker) SubscribeChange(l ChangeListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.changeListeners = append(t.changeListeners, l)
}

// SetLevel sets the tracked quantity for a product
func (t *LevelTracker) SetLevel(product string, level int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.levels[key(product)] = level
}

// Level returns the tracked quantity for a product, zero if untracked
func (t *LevelTracker) Level(product string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.levels[key(product)]
}

// Threshold returns the alert threshold
func (t *LevelTracker) Threshold() int {
	return t.threshold
}

// Deduct lowers a tracked product's quantity. Change listeners fire on
// every deduction; threshold listeners fire only when the new level is
// at or below the threshold. Untracked products are ignored. Listeners
// run synchronously on the caller's goroutine.
func (t *LevelTracker) Deduct(product string, qty int) {
	t.mu.Lock()
	k := key(product)
	level, tracked := t.levels[k]
	if !tracked {
		t.mu.Unlock()
		return
	}
	level -= qty
	if level < 0 {
		level = 0
	}
	t.levels[k] = level
	notify := level <= t.threshold
	listeners := make([]Listener, len(t.listeners))
	copy(listeners, t.listeners)
	changeListeners := make([]ChangeListener, len(t.changeListeners))
	copy(changeListeners, t.changeListeners)
	t.mu.Unlock()

	for _, l := range changeListeners {
		l(product, qty, level)
	}
	if !notify {
		return
	}
	for _, l := range listeners {
		l(product, level)
	}
}

func key(product string) string {
	return strings.ToLower(product)
}
