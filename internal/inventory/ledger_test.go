package inventory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestReserveDebitsStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	product := seedProduct(t, db, 5)

	if err := ledger.Reserve(ctx, product.ID, 3); err != nil {
		t.Fatalf("reserve 3 of 5: %v", err)
	}

	available, err := ledger.Available(ctx, product.ID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if available != 2 {
		t.Fatalf("expected 2 remaining, got %d", available)
	}
}

func TestReserveRejectsShortage(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	product := seedProduct(t, db, 5)

	err := ledger.Reserve(ctx, product.ID, 6)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("unexpected error: %v", err)
	}
	shortage, ok := typed.Details().(StockShortage)
	if !ok {
		t.Fatalf("expected shortage details, got %T", typed.Details())
	}
	if shortage.Available != 5 || shortage.Requested != 6 {
		t.Fatalf("unexpected shortage: %+v", shortage)
	}

	// the failed attempt must not touch the stored amount
	if available, _ := ledger.Available(ctx, product.ID); available != 5 {
		t.Fatalf("expected stock untouched, got %d", available)
	}
}

func TestReserveExactAmountDrainsToZero(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	product := seedProduct(t, db, 5)

	if err := ledger.Reserve(ctx, product.ID, 5); err != nil {
		t.Fatalf("reserve all 5: %v", err)
	}
	if available, _ := ledger.Available(ctx, product.ID); available != 0 {
		t.Fatalf("expected 0 remaining, got %d", available)
	}

	err := ledger.Reserve(ctx, product.ID, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock on drained product, got %v", err)
	}
}

func TestReserveNeverOversells(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	product := seedProduct(t, db, 10)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ledger.Reserve(ctx, product.ID, 1)
			if err == nil {
				granted.Add(1)
				return
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
				t.Errorf("unexpected reserve error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := granted.Load(); got != 10 {
		t.Fatalf("expected exactly 10 grants, got %d", got)
	}
	if available, _ := ledger.Available(ctx, product.ID); available != 0 {
		t.Fatalf("expected 0 remaining, got %d", available)
	}
}

func TestReserveInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger(db)
	product := seedProduct(t, db, 5)

	for _, qty := range []int{0, -1} {
		err := ledger.Reserve(context.Background(), product.ID, qty)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("qty %d: expected validation error, got %v", qty, err)
		}
	}
}

func TestRestockCreditsStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)

	product := seedProduct(t, db, 2)

	if err := ledger.Restock(ctx, product.ID, 8); err != nil {
		t.Fatalf("restock: %v", err)
	}
	if available, _ := ledger.Available(ctx, product.ID); available != 10 {
		t.Fatalf("expected 10 after restock, got %d", available)
	}

	err := ledger.Restock(ctx, uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	// sqlite allows one writer at a time; funnel the pool through a single
	// connection so concurrent reservations queue instead of failing busy.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, amount int) *models.Product {
	t.Helper()
	product := &models.Product{
		ShopID:  uuid.New(),
		NameRU:  "Test Product",
		NameUZ:  "Test Mahsulot",
		Price:   1000,
		Amount:  amount,
		MinSell: 1,
		Articul: uuid.NewString()[:8],
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
