package command

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"pharmapos/internal/models"
	"pharmapos/internal/util"
)

// Command is an executable sale operation
type Command interface {
	Name() string
	Execute() error
}

// Reversible marks commands whose effect can be undone. Commands that do
// not implement it are one-way; the invoker reports their undo as a
// deliberate non-operation.
type Reversible interface {
	Command
	Undo() error
}

// SaleBook is the in-memory collection of registered sales
type SaleBook struct {
	mu    sync.Mutex
	sales map[string]*models.Sale
}

// NewSaleBook creates an empty sale collection
func NewSaleBook() *SaleBook {
	return &SaleBook{sales: make(map[string]*models.Sale)}
}

// Put inserts or replaces a sale by id
func (b *SaleBook) Put(sale *models.Sale) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sales[sale.ID] = sale
}

// Get returns the sale with the given id
func (b *SaleBook) Get(id string) (*models.Sale, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sale, ok := b.sales[id]
	return sale, ok
}

// Remove deletes a sale by id, reporting whether one was found
func (b *SaleBook) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.sales[id]; !ok {
		return false
	}
	delete(b.sales, id)
	return true
}

// Len returns the number of registered sales
func (b *SaleBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sales)
}

// RegisterSale inserts a sale into the book. Fully reversible: undo
// removes the sale again.
type RegisterSale struct {
	book *SaleBook
	sale *models.Sale
}

// NewRegisterSale creates a register command for the sale
func NewRegisterSale(book *SaleBook, sale *models.Sale) *RegisterSale {
	return &RegisterSale{book: book, sale: sale}
}

// Name returns the command name
func (c *RegisterSale) Name() string { return "register_sale" }

// Execute inserts the sale
func (c *RegisterSale) Execute() error {
	if c.sale == nil {
		return fmt.Errorf("register: sale is required")
	}
	c.book.Put(c.sale)
	return nil
}

// Undo removes the sale by id
func (c *RegisterSale) Undo() error {
	c.book.Remove(c.sale.ID)
	return nil
}

// CancelSale removes a sale by id. One-way: the removed sale's contents
// are not retained, so there is nothing to restore.
type CancelSale struct {
	book   *SaleBook
	saleID string
	found  bool
	logger *zap.Logger
}

// NewCancelSale creates a cancel command for the sale id
func NewCancelSale(book *SaleBook, saleID string) *CancelSale {
	return &CancelSale{book: book, saleID: saleID, logger: util.GetLogger()}
}

// Name returns the command name
func (c *CancelSale) Name() string { return "cancel_sale" }

// Execute removes the sale, recording whether one was found
func (c *CancelSale) Execute() error {
	c.found = c.book.Remove(c.saleID)
	if !c.found {
		c.logger.Warn("Cancel found no sale", zap.String("sale_id", c.saleID))
	}
	return nil
}

// Found reports whether Execute removed a sale
func (c *CancelSale) Found() bool { return c.found }

// ReturnItem removes one named item from a registered sale. One-way: the
// returned item is not re-added on undo.
type ReturnItem struct {
	book     *SaleBook
	saleID   string
	itemName string
	found    bool
	logger   *zap.Logger
}

// NewReturnItem creates a return command for the sale id and item name
func NewReturnItem(book *SaleBook, saleID, itemName string) *ReturnItem {
	return &ReturnItem{book: book, saleID: saleID, itemName: itemName, logger: util.GetLogger()}
}

// Name returns the command name
func (c *ReturnItem) Name() string { return "return_item" }

// Execute removes the item from the sale, keeping the sale total in step
func (c *ReturnItem) Execute() error {
	sale, ok := c.book.Get(c.saleID)
	if !ok {
		c.logger.Warn("Return found no sale", zap.String("sale_id", c.saleID))
		return nil
	}
	c.found = sale.RemoveItem(c.itemName)
	if !c.found {
		c.logger.Warn("Return found no matching item",
			zap.String("sale_id", c.saleID),
			zap.String("item", c.itemName))
	}
	return nil
}

// Found reports whether Execute removed an item
func (c *ReturnItem) Found() bool { return c.found }
