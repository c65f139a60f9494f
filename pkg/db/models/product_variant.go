package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is an optional color/size specialization with its own stock
// and decimal pricing.
type ProductVariant struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Color           *string         `gorm:"column:color"`
	Size            *string         `gorm:"column:size"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	MinSell         int             `gorm:"column:min_sell;not null;default:1"`
	Position        int             `gorm:"column:position;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
