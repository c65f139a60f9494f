package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order belongs to one customer. TotalPrice is always recomputed from the
// item set; no write path sets it directly.
type Order struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID uuid.UUID   `gorm:"column:customer_id;type:uuid;not null;index"`
	TotalPrice int         `gorm:"column:total_price;not null;default:0"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
