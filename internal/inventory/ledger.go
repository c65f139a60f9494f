package inventory

import (
	"context"
	"errors"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockShortage describes why a reservation was rejected.
type StockShortage struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

// Ledger performs stock movements against the products table. All writes go
// through conditional updates so concurrent reservations can never drive the
// amount below zero.
type Ledger struct {
	db *gorm.DB
}

// NewLedger builds a ledger tied to the provided GORM DB.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a ledger bound to the provided transaction.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// Reserve debits qty units of stock in a single conditional update. The
// guard in the WHERE clause makes the check-and-debit atomic: if another
// transaction drained the stock first, zero rows match and the caller gets
// an insufficient-stock error carrying the remaining amount.
func (l *Ledger) Reserve(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	res := l.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND amount >= ?", productID, qty).
		UpdateColumn("amount", gorm.Expr("amount - ?", qty))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: debit stock")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	available, err := l.Available(ctx, productID)
	if err != nil {
		return err
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock available").
		WithDetails(StockShortage{ProductID: productID, Requested: qty, Available: available})
}

// Restock credits qty units back. Order mutations never call this: removing
// an item or deleting an order keeps the debit.
func (l *Ledger) Restock(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	res := l.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("amount", gorm.Expr("amount + ?", qty))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: credit stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// Available returns the current on-hand amount for the product.
func (l *Ledger) Available(ctx context.Context, productID uuid.UUID) (int, error) {
	var product models.Product
	if err := l.db.WithContext(ctx).Select("id", "amount").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock")
	}
	return product.Amount, nil
}
