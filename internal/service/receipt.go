package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmapos/internal/models"
)

// NewReceipt builds the receipt for a completed sale
func NewReceipt(sale *models.Sale) *models.Receipt {
	lines := make([]models.ReceiptLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		lines = append(lines, models.ReceiptLine{Name: item.Name, Price: item.Price})
	}

	return &models.Receipt{
		Number:   fmt.Sprintf("RCP-%s", uuid.New().String()[:8]),
		SaleID:   sale.ID,
		Client:   sale.Client,
		Lines:    lines,
		Total:    sale.Total,
		IssuedAt: time.Now(),
	}
}

// RenderReceipt formats a receipt for display
func RenderReceipt(r *models.Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Receipt %s\n", r.Number)
	fmt.Fprintf(&b, "Client: %s\n", r.Client)
	for _, line := range r.Lines {
		fmt.Fprintf(&b, "  %-30s %10d\n", line.Name, line.Price)
	}
	fmt.Fprintf(&b, "Total: %d\n", r.Total)
	return b.String()
}
