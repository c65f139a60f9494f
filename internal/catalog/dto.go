package catalog

import (
	"time"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the seller product payload returned to clients.
type ProductDTO struct {
	ID              uuid.UUID           `json:"id"`
	ShopID          uuid.UUID           `json:"shop_id"`
	CategoryID      uuid.UUID           `json:"category_id"`
	NameRU          string              `json:"name_ru"`
	NameUZ          string              `json:"name_uz"`
	DescriptionRU   string              `json:"description_ru"`
	DescriptionUZ   string              `json:"description_uz"`
	Price           int                 `json:"price"`
	Amount          int                 `json:"amount"`
	MinSell         int                 `json:"min_sell"`
	Articul         string              `json:"articul"`
	Rating          float64             `json:"rating"`
	Variants        []VariantDTO        `json:"variants,omitempty"`
	BulkPrices      []BulkPriceDTO      `json:"bulk_prices,omitempty"`
	Photos          []PhotoDTO          `json:"photos,omitempty"`
	Videos          []VideoDTO          `json:"videos,omitempty"`
	Keywords        []string            `json:"keywords,omitempty"`
	Characteristics []CharacteristicDTO `json:"characteristics,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// VariantDTO is a color/size specialization with decimal pricing.
type VariantDTO struct {
	ID              uuid.UUID       `json:"id"`
	Color           *string         `json:"color,omitempty"`
	Size            *string         `json:"size,omitempty"`
	Stock           int             `json:"stock"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	MinSell         int             `json:"min_sell"`
}

// BulkPriceDTO is a quantity tier.
type BulkPriceDTO struct {
	ID           uuid.UUID `json:"id"`
	MinQuantity  int       `json:"min_quantity"`
	PricePerUnit int       `json:"price_per_unit"`
}

type PhotoDTO struct {
	ID       uuid.UUID `json:"id"`
	ImageKey string    `json:"image_key"`
	Position int       `json:"position"`
}

type VideoDTO struct {
	ID       uuid.UUID `json:"id"`
	VideoKey string    `json:"video_key"`
	Position int       `json:"position"`
}

// CharacteristicDTO is one bilingual spec row.
type CharacteristicDTO struct {
	ID      uuid.UUID `json:"id"`
	TitleUZ string    `json:"title_uz"`
	TitleRU string    `json:"title_ru"`
	InfoUZ  string    `json:"info_uz"`
	InfoRU  string    `json:"info_ru"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:            product.ID,
		ShopID:        product.ShopID,
		CategoryID:    product.CategoryID,
		NameRU:        product.NameRU,
		NameUZ:        product.NameUZ,
		DescriptionRU: product.DescriptionRU,
		DescriptionUZ: product.DescriptionUZ,
		Price:         product.Price,
		Amount:        product.Amount,
		MinSell:       product.MinSell,
		Articul:       product.Articul,
		Rating:        product.Rating,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}

	if len(product.Variants) > 0 {
		dto.Variants = make([]VariantDTO, len(product.Variants))
		for i, v := range product.Variants {
			dto.Variants[i] = VariantDTO{
				ID:              v.ID,
				Color:           v.Color,
				Size:            v.Size,
				Stock:           v.Stock,
				Price:           v.Price,
				DiscountPercent: v.DiscountPercent,
				MinSell:         v.MinSell,
			}
		}
	}

	if len(product.BulkPrices) > 0 {
		dto.BulkPrices = make([]BulkPriceDTO, len(product.BulkPrices))
		for i, tier := range product.BulkPrices {
			dto.BulkPrices[i] = BulkPriceDTO{
				ID:           tier.ID,
				MinQuantity:  tier.MinQuantity,
				PricePerUnit: tier.PricePerUnit,
			}
		}
	}

	if len(product.Photos) > 0 {
		dto.Photos = make([]PhotoDTO, len(product.Photos))
		for i, p := range product.Photos {
			dto.Photos[i] = PhotoDTO{ID: p.ID, ImageKey: p.ImageKey, Position: p.Position}
		}
	}

	if len(product.Videos) > 0 {
		dto.Videos = make([]VideoDTO, len(product.Videos))
		for i, v := range product.Videos {
			dto.Videos[i] = VideoDTO{ID: v.ID, VideoKey: v.VideoKey, Position: v.Position}
		}
	}

	if len(product.Keywords) > 0 {
		dto.Keywords = make([]string, len(product.Keywords))
		for i, k := range product.Keywords {
			dto.Keywords[i] = k.Keyword
		}
	}

	if len(product.Characteristics) > 0 {
		dto.Characteristics = make([]CharacteristicDTO, len(product.Characteristics))
		for i, c := range product.Characteristics {
			dto.Characteristics[i] = CharacteristicDTO{
				ID:      c.ID,
				TitleUZ: c.TitleUZ,
				TitleRU: c.TitleRU,
				InfoUZ:  c.InfoUZ,
				InfoRU:  c.InfoRU,
			}
		}
	}

	return dto
}
