package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aziznur-dev/bozorplace-backend/pkg/enums"
)

// User is a marketplace account: buyer, vendor, or admin.
type User struct {
	ID                    uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Username              string         `gorm:"column:username;not null;uniqueIndex"`
	Phone                 *string        `gorm:"column:phone;uniqueIndex"`
	PasswordHash          string         `gorm:"column:password_hash;not null"`
	PaymentMethod         *string        `gorm:"column:payment_method"`
	FirstRegisteredDevice *string        `gorm:"column:first_registered_device"`
	UserType              enums.UserType `gorm:"column:user_type;not null;default:'user'"`
	ImageKey              *string        `gorm:"column:image_key"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
