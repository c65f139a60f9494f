package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the canonical seller listing. Rating is derived from reviews and
// Amount is mutated only through the inventory ledger.
type Product struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ShopID        uuid.UUID `gorm:"column:shop_id;type:uuid;not null"`
	NameRU        string    `gorm:"column:name_ru;not null"`
	NameUZ        string    `gorm:"column:name_uz;not null"`
	DescriptionRU string    `gorm:"column:description_ru;not null"`
	DescriptionUZ string    `gorm:"column:description_uz;not null"`
	Price         int       `gorm:"column:price;not null"`
	Amount        int       `gorm:"column:amount;not null;default:0"`
	MinSell       int       `gorm:"column:min_sell;not null;default:1"`
	Articul       string    `gorm:"column:articul;not null;uniqueIndex"`
	Rating        float64   `gorm:"column:rating;not null;default:0"`
	CategoryID    uuid.UUID `gorm:"column:category_id;type:uuid;not null"`

	Variants        []ProductVariant        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BulkPrices      []BulkPrice             `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Photos          []ProductPhoto          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Videos          []ProductVideo          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Keywords        []ProductKeyword        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Characteristics []ProductCharacteristic `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
