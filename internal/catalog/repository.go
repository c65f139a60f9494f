package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/aziznur-dev/bozorplace-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together all catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail fetches a product with every child collection preloaded
// in stable position order.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", positionOrder).
		Preload("BulkPrices", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Preload("Photos", positionOrder).
		Preload("Videos", positionOrder).
		Preload("Keywords", positionOrder).
		Preload("Characteristics", positionOrder).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func positionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateProduct inserts a new product row without associations.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the scalar columns of an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID; child rows go with it via FK cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Variants", "BulkPrices", "Photos", "Videos", "Keywords", "Characteristics").
		Delete(&models.Product{ID: id}).Error
}

// ArticulExists reports whether any product already carries the code.
func (r *Repository) ArticulExists(ctx context.Context, articul string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("articul = ?", articul).
		Count(&count).
		Error
	return count > 0, err
}

// DeleteAllChildren wipes every child collection for the product. Used by the
// destructive replace path before re-creating from the payload.
func (r *Repository) DeleteAllChildren(ctx context.Context, productID uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	for _, model := range []any{
		&models.ProductVariant{},
		&models.BulkPrice{},
		&models.ProductPhoto{},
		&models.ProductVideo{},
		&models.ProductKeyword{},
		&models.ProductCharacteristic{},
	} {
		if err := tx.Where("product_id = ?", productID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateVariants inserts the rows preserving slice order via position.
func (r *Repository) CreateVariants(ctx context.Context, rows []models.ProductVariant) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) CreateBulkPrices(ctx context.Context, rows []models.BulkPrice) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) CreatePhotos(ctx context.Context, rows []models.ProductPhoto) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) CreateVideos(ctx context.Context, rows []models.ProductVideo) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) CreateKeywords(ctx context.Context, rows []models.ProductKeyword) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *Repository) CreateCharacteristics(ctx context.Context, rows []models.ProductCharacteristic) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ListFilters narrows the catalog listing.
type ListFilters struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	Query      string
}

type listQuery struct {
	Pagination pagination.Params
	Filters    ListFilters
}

// ListResult is one catalog page plus the cursor for the next one.
type ListResult struct {
	Products   []models.Product
	NextCursor string
}

// ListProducts returns a cursor page ordered by (created_at, id) descending.
func (r *Repository) ListProducts(ctx context.Context, query listQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})

	filter := query.Filters
	if filter.ShopID != nil {
		qb = qb.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name_ru) LIKE ? OR LOWER(name_uz) LIKE ? OR articul LIKE ?)", pattern, pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{
		Products:   rows,
		NextCursor: nextCursor,
	}, nil
}

// touchUpdatedAt is used by replace to bump updated_at even when only children changed.
func (r *Repository) touchUpdatedAt(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("updated_at", time.Now().UTC()).
		Error
}
