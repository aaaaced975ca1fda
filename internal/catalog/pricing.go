package catalog

import "pharmapos/internal/models"

// WithDiscount returns a copy of the item with percent subtracted from its
// price. Percent <= 0 is a passthrough; values above 100 are clamped to 100.
func WithDiscount(item models.Item, percent float64) models.Item {
	if percent <= 0 {
		return item
	}
	if percent > 100 {
		percent = 100
	}
	item.Price = int64(float64(item.Price) * (1 - percent/100))
	return item
}

// WithTax returns a copy of the item with percent added to its price.
// Percent <= 0 is a passthrough.
func WithTax(item models.Item, percent float64) models.Item {
	if percent <= 0 {
		return item
	}
	item.Price = int64(float64(item.Price) * (1 + percent/100))
	return item
}
