package catalog

import (
	"testing"

	"pharmapos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem(models.KindGeneric, "Paracetamol", "ACME Labs", 6000)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol", item.Name)
	assert.Equal(t, int64(6000), item.Price)
	assert.Equal(t, models.KindGeneric, item.Kind)
	assert.Equal(t, "ACME Labs", item.AuxInfo)
}

func TestNewItemRejectsUnknownKind(t *testing.T) {
	_, err := NewItem("homeopathic", "Arnica", "", 1000)
	assert.Error(t, err)
}

func TestNewItemRejectsEmptyKind(t *testing.T) {
	_, err := NewItem("", "Paracetamol", "", 1000)
	assert.Error(t, err)
}

func TestNewItemRejectsEmptyName(t *testing.T) {
	_, err := NewItem(models.KindBranded, "   ", "BrandCo", 1000)
	assert.Error(t, err)
}

func TestWithDiscount(t *testing.T) {
	item := models.Item{Name: "Ibuprofen", Price: 10000}

	discounted := WithDiscount(item, 25)
	assert.Equal(t, int64(7500), discounted.Price)
	// input untouched
	assert.Equal(t, int64(10000), item.Price)

	// non-positive percent is a passthrough
	assert.Equal(t, int64(10000), WithDiscount(item, 0).Price)
	assert.Equal(t, int64(10000), WithDiscount(item, -10).Price)

	// clamped to 100
	assert.Equal(t, int64(0), WithDiscount(item, 150).Price)
}

func TestWithTax(t *testing.T) {
	item := models.Item{Name: "Ibuprofen", Price: 10000}

	taxed := WithTax(item, 10)
	assert.Equal(t, int64(11000), taxed.Price)
	assert.Equal(t, int64(10000), item.Price)

	assert.Equal(t, int64(10000), WithTax(item, 0).Price)
	assert.Equal(t, int64(10000), WithTax(item, -5).Price)
}
