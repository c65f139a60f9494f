package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/aziznur-dev/bozorplace-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes seller catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, sellerUserID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	ReplaceProduct(ctx context.Context, sellerUserID, productID uuid.UUID, input ReplaceProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, sellerUserID, productID uuid.UUID) error
	ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	ShopID          uuid.UUID
	CategoryID      uuid.UUID
	NameRU          string
	NameUZ          string
	DescriptionRU   string
	DescriptionUZ   string
	Price           int
	Amount          int
	MinSell         int
	Articul         string
	Variants        []VariantInput
	BulkPrices      []BulkPriceInput
	Photos          []string
	Videos          []string
	Keywords        []string
	Characteristics []CharacteristicInput
}

// ReplaceProductInput carries the full desired state of the product. Every
// child collection is replaced wholesale: an empty slice clears it.
type ReplaceProductInput struct {
	CategoryID      uuid.UUID
	NameRU          string
	NameUZ          string
	DescriptionRU   string
	DescriptionUZ   string
	Price           int
	Amount          int
	MinSell         int
	Variants        []VariantInput
	BulkPrices      []BulkPriceInput
	Photos          []string
	Videos          []string
	Keywords        []string
	Characteristics []CharacteristicInput
}

// VariantInput describes one color/size specialization.
type VariantInput struct {
	Color           *string
	Size            *string
	Stock           int
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal
	MinSell         int
}

// BulkPriceInput defines a per-unit price for quantities at or above MinQuantity.
type BulkPriceInput struct {
	MinQuantity  int
	PricePerUnit int
}

// CharacteristicInput is one bilingual spec row.
type CharacteristicInput struct {
	TitleUZ string
	TitleRU string
	InfoUZ  string
	InfoRU  string
}

// ListProductsInput combines the filters with cursor pagination.
type ListProductsInput struct {
	Pagination pagination.Params
	Filters    ListFilters
}

type shopLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

type categoryChecker interface {
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	shopRepo   shopLoader
	categories categoryChecker
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client, shopRepo shopLoader, categories categoryChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if shopRepo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{
		repo:       repo,
		dbClient:   dbClient,
		shopRepo:   shopRepo,
		categories: categories,
	}, nil
}

// CreateProduct creates the product with every child collection in one transaction.
func (s *service) CreateProduct(ctx context.Context, sellerUserID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateScalarFields(input.NameRU, input.NameUZ, input.Price, input.Amount, input.MinSell); err != nil {
		return nil, err
	}
	if err := validateBulkPrices(input.BulkPrices); err != nil {
		return nil, err
	}

	if err := s.ensureShopOwnership(ctx, input.ShopID, sellerUserID); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		articul := strings.TrimSpace(input.Articul)
		if articul == "" {
			generated, err := generateArticul(ctx, txRepo)
			if err != nil {
				return err
			}
			articul = generated
		}

		product := &models.Product{
			ShopID:        input.ShopID,
			CategoryID:    input.CategoryID,
			NameRU:        input.NameRU,
			NameUZ:        input.NameUZ,
			DescriptionRU: input.DescriptionRU,
			DescriptionUZ: input.DescriptionUZ,
			Price:         input.Price,
			Amount:        input.Amount,
			MinSell:       input.MinSell,
			Articul:       articul,
		}
		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "articul already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		return createChildren(ctx, txRepo, created.ID, childPayload{
			Variants:        input.Variants,
			BulkPrices:      input.BulkPrices,
			Photos:          input.Photos,
			Videos:          input.Videos,
			Keywords:        input.Keywords,
			Characteristics: input.Characteristics,
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	detail, err := s.repo.GetProductDetail(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(detail), nil
}

// ReplaceProduct overwrites the scalar fields and rebuilds every child
// collection from the payload. Children absent from the payload are removed,
// an intentional consequence of the wholesale replace.
func (s *service) ReplaceProduct(ctx context.Context, sellerUserID, productID uuid.UUID, input ReplaceProductInput) (*ProductDTO, error) {
	if err := validateScalarFields(input.NameRU, input.NameUZ, input.Price, input.Amount, input.MinSell); err != nil {
		return nil, err
	}
	if err := validateBulkPrices(input.BulkPrices); err != nil {
		return nil, err
	}

	product, err := s.loadOwnedProduct(ctx, sellerUserID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product.CategoryID = input.CategoryID
		product.NameRU = input.NameRU
		product.NameUZ = input.NameUZ
		product.DescriptionRU = input.DescriptionRU
		product.DescriptionUZ = input.DescriptionUZ
		product.Price = input.Price
		product.Amount = input.Amount
		product.MinSell = input.MinSell
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if err := txRepo.DeleteAllChildren(ctx, product.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear product children")
		}

		if err := createChildren(ctx, txRepo, product.ID, childPayload{
			Variants:        input.Variants,
			BulkPrices:      input.BulkPrices,
			Photos:          input.Photos,
			Videos:          input.Videos,
			Keywords:        input.Keywords,
			Characteristics: input.Characteristics,
		}); err != nil {
			return err
		}

		return txRepo.touchUpdatedAt(ctx, product.ID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace product")
	}

	detail, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(detail), nil
}

// GetProduct returns the product with all children.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	detail, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(detail), nil
}

// DeleteProduct removes an owned product; child rows cascade with it.
// Deleting a product never returns its stock anywhere: the rows are gone.
func (s *service) DeleteProduct(ctx context.Context, sellerUserID, productID uuid.UUID) error {
	if _, err := s.loadOwnedProduct(ctx, sellerUserID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ListProducts returns one cursor page of the catalog.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error) {
	result, err := s.repo.ListProducts(ctx, listQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

type childPayload struct {
	Variants        []VariantInput
	BulkPrices      []BulkPriceInput
	Photos          []string
	Videos          []string
	Keywords        []string
	Characteristics []CharacteristicInput
}

// createChildren inserts every child collection, assigning position from the
// slice index so the input order survives round trips.
func createChildren(ctx context.Context, repo *Repository, productID uuid.UUID, payload childPayload) error {
	if len(payload.Variants) > 0 {
		rows := make([]models.ProductVariant, len(payload.Variants))
		for i, v := range payload.Variants {
			minSell := v.MinSell
			if minSell <= 0 {
				minSell = 1
			}
			rows[i] = models.ProductVariant{
				ProductID:       productID,
				Color:           v.Color,
				Size:            v.Size,
				Stock:           v.Stock,
				Price:           v.Price,
				DiscountPercent: v.DiscountPercent,
				MinSell:         minSell,
				Position:        i,
			}
		}
		if err := repo.CreateVariants(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variants")
		}
	}

	if len(payload.BulkPrices) > 0 {
		rows := make([]models.BulkPrice, len(payload.BulkPrices))
		for i, tier := range payload.BulkPrices {
			rows[i] = models.BulkPrice{
				ProductID:    productID,
				MinQuantity:  tier.MinQuantity,
				PricePerUnit: tier.PricePerUnit,
			}
		}
		if err := repo.CreateBulkPrices(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert bulk prices")
		}
	}

	if len(payload.Photos) > 0 {
		rows := make([]models.ProductPhoto, len(payload.Photos))
		for i, key := range payload.Photos {
			rows[i] = models.ProductPhoto{ProductID: productID, ImageKey: key, Position: i}
		}
		if err := repo.CreatePhotos(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert photos")
		}
	}

	if len(payload.Videos) > 0 {
		rows := make([]models.ProductVideo, len(payload.Videos))
		for i, key := range payload.Videos {
			rows[i] = models.ProductVideo{ProductID: productID, VideoKey: key, Position: i}
		}
		if err := repo.CreateVideos(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert videos")
		}
	}

	if len(payload.Keywords) > 0 {
		rows := make([]models.ProductKeyword, len(payload.Keywords))
		for i, keyword := range payload.Keywords {
			rows[i] = models.ProductKeyword{ProductID: productID, Keyword: keyword, Position: i}
		}
		if err := repo.CreateKeywords(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert keywords")
		}
	}

	if len(payload.Characteristics) > 0 {
		rows := make([]models.ProductCharacteristic, len(payload.Characteristics))
		for i, c := range payload.Characteristics {
			rows[i] = models.ProductCharacteristic{
				ProductID: productID,
				TitleUZ:   c.TitleUZ,
				TitleRU:   c.TitleRU,
				InfoUZ:    c.InfoUZ,
				InfoRU:    c.InfoRU,
				Position:  i,
			}
		}
		if err := repo.CreateCharacteristics(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert characteristics")
		}
	}

	return nil
}

func (s *service) loadOwnedProduct(ctx context.Context, sellerUserID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.ensureShopOwnership(ctx, product.ShopID, sellerUserID); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) ensureShopOwnership(ctx context.Context, shopID, sellerUserID uuid.UUID) error {
	shop, err := s.shopRepo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	if shop.OwnerID != sellerUserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "shop does not belong to user")
	}
	return nil
}

func (s *service) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}
	exists, err := s.categories.CategoryExists(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}
	return nil
}

func validateScalarFields(nameRU, nameUZ string, price, amount, minSell int) error {
	if strings.TrimSpace(nameRU) == "" || strings.TrimSpace(nameUZ) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "both name_ru and name_uz are required")
	}
	if price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}
	if minSell < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_sell must be at least 1")
	}
	return nil
}

func validateBulkPrices(tiers []BulkPriceInput) error {
	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if tier.MinQuantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "bulk price min_quantity must be positive")
		}
		if tier.PricePerUnit < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "bulk price cannot be negative")
		}
		if _, dup := seen[tier.MinQuantity]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate bulk price min_quantity")
		}
		seen[tier.MinQuantity] = struct{}{}
	}
	return nil
}
