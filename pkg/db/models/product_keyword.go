package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductKeyword is a search keyword attached to a product.
type ProductKeyword struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Keyword   string    `gorm:"column:keyword;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (k *ProductKeyword) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
