package reviews

import (
	"testing"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reviews_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     "reviewer_" + uuid.NewString(),
		PasswordHash: "hash",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB) *models.Product {
	t.Helper()
	owner := mustCreateTestUser(t, tx)
	shop := &models.Shop{ID: uuid.New(), OwnerID: owner.ID, Name: "Shop", Description: "shop"}
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
		Price:      100,
		Amount:     10,
		MinSell:    1,
		Articul:    uuid.NewString()[:8],
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

// mustRecordPurchase seeds an order with one item so the user passes the
// review eligibility check.
func mustRecordPurchase(t *testing.T, tx *gorm.DB, userID, productID uuid.UUID) {
	t.Helper()
	order := &models.Order{ID: uuid.New(), CustomerID: userID}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	item := &models.OrderItem{
		ID:           uuid.New(),
		OrderID:      order.ID,
		ProductID:    productID,
		Quantity:     1,
		PricePerUnit: 100,
	}
	if err := tx.Create(item).Error; err != nil {
		t.Fatalf("create order item: %v", err)
	}
}

func productRating(t *testing.T, tx *gorm.DB, productID uuid.UUID) float64 {
	t.Helper()
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return product.Rating
}
