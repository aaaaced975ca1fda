package catalog

import (
	"fmt"
	"strings"

	"pharmapos/internal/models"
)

// NewItem builds a catalog item of the given kind. The auxiliary info is
// interpreted per kind: laboratory for generics, brand for branded items,
// regulatory code for controlled substances. Unknown or empty kinds and
// empty names are rejected.
func NewItem(kind models.ItemKind, name, auxInfo string, price int64) (models.Item, error) {
	if kind == "" {
		return models.Item{}, fmt.Errorf("item kind is required")
	}
	if strings.TrimSpace(name) == "" {
		return models.Item{}, fmt.Errorf("item name is required")
	}

	switch kind {
	case models.KindGeneric, models.KindBranded, models.KindControlled:
	default:
		return models.Item{}, fmt.Errorf("unknown item kind: %q", kind)
	}

	return models.Item{
		Name:    name,
		Price:   price,
		Kind:    kind,
		AuxInfo: auxInfo,
	}, nil
}
