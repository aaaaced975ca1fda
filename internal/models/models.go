package models

import (
	"strings"
	"time"
)

// ItemKind classifies a sellable pharmacy item
type ItemKind string

const (
	KindGeneric    ItemKind = "generic"
	KindBranded    ItemKind = "branded"
	KindControlled ItemKind = "controlled"
)

// Item represents a sellable unit. Identity is the name, compared
// case-insensitively everywhere. Immutable after creation.
type Item struct {
	Name    string   `db:"name" json:"name"`
	Price   int64    `db:"price" json:"price"`
	Kind    ItemKind `db:"kind" json:"kind"`
	AuxInfo string   `db:"aux_info" json:"aux_info"` // lab, brand, or regulatory code depending on Kind
}

// SameName reports whether two items share an identity.
func (it Item) SameName(other Item) bool {
	return strings.EqualFold(it.Name, other.Name)
}

// Sale represents a cart of items for one client
type Sale struct {
	ID     string `json:"id"`
	Client string `json:"client"`
	Items  []Item `json:"items"`
	Total  int64  `json:"total"`
}

// NewSale creates an empty sale for a client
func NewSale(id, client string) *Sale {
	return &Sale{ID: id, Client: client}
}

// AddItem appends an item and folds its price into the running total.
// The total is only ever maintained incrementally, never recomputed.
func (s *Sale) AddItem(item Item) {
	s.Items = append(s.Items, item)
	s.Total += item.Price
}

// RemoveItem removes the first item matching name (case-insensitive) and
// subtracts its price from the running total. Returns false if no item
// matched.
func (s *Sale) RemoveItem(name string) bool {
	for i, it := range s.Items {
		if strings.EqualFold(it.Name, name) {
			s.Total -= it.Price
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return true
		}
	}
	return false
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order statuses
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// Order tracks the fulfillment lifecycle of a completed sale,
// independent of the sale pipeline itself
type Order struct {
	ID        string      `db:"id" json:"id"`
	Status    OrderStatus `db:"status" json:"status"`
	Products  []string    `json:"products"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// NewOrder creates an order in the Pending state
func NewOrder(id string, products ...string) *Order {
	now := time.Now()
	return &Order{
		ID:        id,
		Status:    OrderStatusPending,
		Products:  products,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReceiptLine is one priced line on a receipt
type ReceiptLine struct {
	Name  string `db:"name" json:"name"`
	Price int64  `db:"price" json:"price"`
}

// Receipt is the record emitted for a completed sale
type Receipt struct {
	Number   string        `db:"number" json:"number"`
	SaleID   string        `db:"sale_id" json:"sale_id"`
	Client   string        `db:"client" json:"client"`
	Lines    []ReceiptLine `json:"lines"`
	Total    int64         `db:"total" json:"total"`
	IssuedAt time.Time     `db:"issued_at" json:"issued_at"`
}
