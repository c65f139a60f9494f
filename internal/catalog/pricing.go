package catalog

import (
	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
)

// PriceForQuantity resolves the per-unit price for the given quantity.
// The tier with the largest MinQuantity that the quantity still reaches
// wins; a quantity below every tier pays the base price. Tiers may arrive
// in any order.
func PriceForQuantity(basePrice int, tiers []models.BulkPrice, qty int) int {
	price := basePrice
	bestMin := 0
	for _, tier := range tiers {
		if tier.MinQuantity <= 0 {
			continue
		}
		if qty >= tier.MinQuantity && tier.MinQuantity > bestMin {
			bestMin = tier.MinQuantity
			price = tier.PricePerUnit
		}
	}
	return price
}
