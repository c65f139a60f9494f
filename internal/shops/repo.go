package shops

import (
	"context"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository owns shop and category rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateShop(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// FindByID loads one shop. Also serves the catalog service's ownership check.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Shop, error) {
	var rows []models.Shop
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

func (r *Repository) UpdateShop(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shop.ID).
		UpdateColumns(map[string]any{
			"name":        shop.Name,
			"description": shop.Description,
			"image_key":   shop.ImageKey,
		}).
		Error
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name_ru ASC").Find(&rows).Error
	return rows, err
}

// CategoryExists serves the catalog service's category check.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Count(&count).
		Error
	return count > 0, err
}
