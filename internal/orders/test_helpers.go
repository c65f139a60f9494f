package orders

import (
	"testing"

	"github.com/aziznur-dev/bozorplace-backend/internal/inventory"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Category{},
		&models.Product{},
		&models.BulkPrice{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), inventory.NewLedger(conn), db.NewFromConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCreateTestCustomer(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     "customer_" + uuid.NewString(),
		PasswordHash: "hash",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, price, amount, minSell int, tiers []models.BulkPrice) *models.Product {
	t.Helper()
	user := mustCreateTestCustomer(t, tx)
	shop := &models.Shop{ID: uuid.New(), OwnerID: user.ID, Name: "Shop", Description: "shop"}
	if err := tx.Create(shop).Error; err != nil {
		t.Fatalf("create shop: %v", err)
	}
	category := &models.Category{ID: uuid.New(), NameRU: "Категория", NameUZ: "Kategoriya"}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &models.Product{
		ID:         uuid.New(),
		ShopID:     shop.ID,
		CategoryID: category.ID,
		NameRU:     "Товар",
		NameUZ:     "Mahsulot",
		Price:      price,
		Amount:     amount,
		MinSell:    minSell,
		Articul:    uuid.NewString()[:8],
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	for i := range tiers {
		tiers[i].ID = uuid.New()
		tiers[i].ProductID = product.ID
		if err := tx.Create(&tiers[i]).Error; err != nil {
			t.Fatalf("create bulk price: %v", err)
		}
	}
	return product
}

func productStock(t *testing.T, tx *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.Amount
}
