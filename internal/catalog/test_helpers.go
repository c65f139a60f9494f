package catalog

import (
	"context"
	"testing"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.BulkPrice{},
		&models.ProductPhoto{},
		&models.ProductVideo{},
		&models.ProductKeyword{},
		&models.ProductCharacteristic{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     "seller_" + uuid.NewString(),
		PasswordHash: "hash",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestShop(t *testing.T, tx *gorm.DB, ownerID uuid.UUID) *models.Shop {
	t.Helper()
	shop := &models.Shop{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        "Test Shop",
		Description: "test shop",
	}
	if err := tx.Create(shop).Error; err != nil {
		t.Fatalf("create shop: %v", err)
	}
	return shop
}

func mustCreateTestCategory(t *testing.T, tx *gorm.DB) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:     uuid.New(),
		NameRU: "Электроника",
		NameUZ: "Elektronika",
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

type shopRepoAdapter struct {
	db *gorm.DB
}

func (a shopRepoAdapter) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := a.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

type categoryRepoAdapter struct {
	db *gorm.DB
}

func (a categoryRepoAdapter) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
