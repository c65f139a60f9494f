package catalog

import (
	"testing"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
)

func TestPriceForQuantity(t *testing.T) {
	t.Parallel()

	tiers := []models.BulkPrice{
		{MinQuantity: 50, PricePerUnit: 70},
		{MinQuantity: 10, PricePerUnit: 90},
		{MinQuantity: 100, PricePerUnit: 60},
	}

	cases := []struct {
		name  string
		base  int
		tiers []models.BulkPrice
		qty   int
		want  int
	}{
		{"no tiers", 100, nil, 5, 100},
		{"below smallest tier", 100, tiers, 9, 100},
		{"exactly at tier boundary", 100, tiers, 10, 90},
		{"between tiers", 100, tiers, 49, 90},
		{"largest qualifying tier wins", 100, tiers, 50, 70},
		{"top tier", 100, tiers, 250, 60},
		{"single tier reached", 100, []models.BulkPrice{{MinQuantity: 10, PricePerUnit: 90}}, 10, 90},
		{"single tier missed", 100, []models.BulkPrice{{MinQuantity: 10, PricePerUnit: 90}}, 1, 100},
		{"non-positive tier ignored", 100, []models.BulkPrice{{MinQuantity: 0, PricePerUnit: 1}}, 5, 100},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := PriceForQuantity(tc.base, tc.tiers, tc.qty); got != tc.want {
				t.Fatalf("PriceForQuantity(%d, qty=%d) = %d, want %d", tc.base, tc.qty, got, tc.want)
			}
		})
	}
}
