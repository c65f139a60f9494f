package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes shop and category operations.
type Service interface {
	CreateShop(ctx context.Context, ownerID uuid.UUID, input ShopInput) (*ShopDTO, error)
	UpdateShop(ctx context.Context, ownerID, shopID uuid.UUID, input ShopInput) (*ShopDTO, error)
	GetShop(ctx context.Context, shopID uuid.UUID) (*ShopDTO, error)
	ListMyShops(ctx context.Context, ownerID uuid.UUID) ([]ShopDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
}

type ShopInput struct {
	Name        string  `json:"name" validate:"required,max=128"`
	Description string  `json:"description" validate:"required,max=4000"`
	ImageKey    *string `json:"image_key" validate:"omitempty,max=512"`
}

// ShopDTO is the storefront payload returned to clients.
type ShopDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageKey    *string   `json:"image_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryDTO is the bilingual category payload.
type CategoryDTO struct {
	ID       uuid.UUID `json:"id"`
	NameRU   string    `json:"name_ru"`
	NameUZ   string    `json:"name_uz"`
	ImageKey *string   `json:"image_key,omitempty"`
}

func newShopDTO(shop *models.Shop) *ShopDTO {
	return &ShopDTO{
		ID:          shop.ID,
		OwnerID:     shop.OwnerID,
		Name:        shop.Name,
		Description: shop.Description,
		ImageKey:    shop.ImageKey,
		CreatedAt:   shop.CreatedAt,
		UpdatedAt:   shop.UpdatedAt,
	}
}

type service struct {
	repo *Repository
}

// NewService constructs a shop service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateShop(ctx context.Context, ownerID uuid.UUID, input ShopInput) (*ShopDTO, error) {
	if err := validateShopInput(input); err != nil {
		return nil, err
	}

	shop := &models.Shop{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		ImageKey:    input.ImageKey,
	}
	if _, err := s.repo.CreateShop(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert shop")
	}
	return newShopDTO(shop), nil
}

func (s *service) UpdateShop(ctx context.Context, ownerID, shopID uuid.UUID, input ShopInput) (*ShopDTO, error) {
	if err := validateShopInput(input); err != nil {
		return nil, err
	}

	shop, err := s.loadOwnedShop(ctx, ownerID, shopID)
	if err != nil {
		return nil, err
	}

	shop.Name = strings.TrimSpace(input.Name)
	shop.Description = strings.TrimSpace(input.Description)
	shop.ImageKey = input.ImageKey
	if err := s.repo.UpdateShop(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update shop")
	}
	return newShopDTO(shop), nil
}

func (s *service) GetShop(ctx context.Context, shopID uuid.UUID) (*ShopDTO, error) {
	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return newShopDTO(shop), nil
}

func (s *service) ListMyShops(ctx context.Context, ownerID uuid.UUID) ([]ShopDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}
	dtos := make([]ShopDTO, len(rows))
	for i := range rows {
		dtos[i] = *newShopDTO(&rows[i])
	}
	return dtos, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, len(rows))
	for i, category := range rows {
		dtos[i] = CategoryDTO{
			ID:       category.ID,
			NameRU:   category.NameRU,
			NameUZ:   category.NameUZ,
			ImageKey: category.ImageKey,
		}
	}
	return dtos, nil
}

func (s *service) loadOwnedShop(ctx context.Context, ownerID, shopID uuid.UUID) (*models.Shop, error) {
	shop, err := s.repo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	if shop.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shop does not belong to user")
	}
	return shop, nil
}

func validateShopInput(input ShopInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop description is required")
	}
	return nil
}
