package accounts

import (
	"time"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/aziznur-dev/bozorplace-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the account payload returned to clients. The password hash and
// device binding never leave the service.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Username  string         `json:"username"`
	Phone     *string        `json:"phone,omitempty"`
	UserType  enums.UserType `json:"user_type"`
	ImageKey  *string        `json:"image_key,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuthResultDTO bundles the account with a freshly issued token pair.
type AuthResultDTO struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}

func newUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Phone:     user.Phone,
		UserType:  user.UserType,
		ImageKey:  user.ImageKey,
		CreatedAt: user.CreatedAt,
	}
}
