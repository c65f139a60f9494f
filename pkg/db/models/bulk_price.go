package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BulkPrice is a quantity tier for a product: at or above MinQuantity the
// per-unit price drops to PricePerUnit.
type BulkPrice struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	MinQuantity  int       `gorm:"column:min_quantity;not null"`
	PricePerUnit int       `gorm:"column:price_per_unit;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (b *BulkPrice) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
