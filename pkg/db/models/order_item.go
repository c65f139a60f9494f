package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem captures one purchased line. PricePerUnit is the pricing engine
// snapshot taken at creation and is never recomputed afterwards.
type OrderItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Quantity     int       `gorm:"column:quantity;not null"`
	PricePerUnit int       `gorm:"column:price_per_unit;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LineTotal returns the captured line amount.
func (i OrderItem) LineTotal() int {
	return i.PricePerUnit * i.Quantity
}
