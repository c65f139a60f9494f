package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductCharacteristic is a bilingual spec row (e.g. material, weight).
type ProductCharacteristic struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	TitleUZ   string    `gorm:"column:title_uz;not null"`
	TitleRU   string    `gorm:"column:title_ru;not null"`
	InfoUZ    string    `gorm:"column:info_uz;not null"`
	InfoRU    string    `gorm:"column:info_ru;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *ProductCharacteristic) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
