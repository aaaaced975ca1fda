package models

import "time"

// Event types
const (
	EventTypeSaleCompleted = "SALE_COMPLETED"
	EventTypeSaleFailed    = "SALE_FAILED"
	EventTypeStockLow      = "STOCK_LOW"
	EventTypeOrderAdvanced = "ORDER_ADVANCED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleCompletedEvent published when a sale is paid and stock committed
type SaleCompletedEvent struct {
	BaseEvent
	SaleID        string        `json:"sale_id"`
	Client        string        `json:"client"`
	Total         int64         `json:"total"`
	PaymentMethod string        `json:"payment_method"`
	ReceiptNumber string        `json:"receipt_number"`
	Lines         []ReceiptLine `json:"lines"`
}

// SaleFailedEvent published when a sale aborts with no commit
type SaleFailedEvent struct {
	BaseEvent
	SaleID string `json:"sale_id"`
	Reason string `json:"reason"`
}

// StockLowEvent published when a tracked product drops to or
// below its alert threshold
type StockLowEvent struct {
	BaseEvent
	Product   string `json:"product"`
	Level     int    `json:"level"`
	Threshold int    `json:"threshold"`
}

// OrderAdvancedEvent published when an order moves to a new lifecycle state
type OrderAdvancedEvent struct {
	BaseEvent
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
}
