package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aziznur-dev/bozorplace-backend/api/responses"
	"github.com/aziznur-dev/bozorplace-backend/api/validators"
	"github.com/aziznur-dev/bozorplace-backend/internal/catalog"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/aziznur-dev/bozorplace-backend/pkg/logger"
)

type productVariantRequest struct {
	Color           *string         `json:"color,omitempty"`
	Size            *string         `json:"size,omitempty"`
	Stock           int             `json:"stock" validate:"min=0"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	MinSell         int             `json:"min_sell" validate:"omitempty,min=1"`
}

type bulkPriceRequest struct {
	MinQuantity  int `json:"min_quantity" validate:"required,min=1"`
	PricePerUnit int `json:"price_per_unit" validate:"min=0"`
}

type characteristicRequest struct {
	TitleUZ string `json:"title_uz" validate:"required"`
	TitleRU string `json:"title_ru" validate:"required"`
	InfoUZ  string `json:"info_uz" validate:"required"`
	InfoRU  string `json:"info_ru" validate:"required"`
}

type createProductRequest struct {
	ShopID          string                  `json:"shop_id" validate:"required,uuid"`
	CategoryID      string                  `json:"category_id" validate:"required,uuid"`
	NameRU          string                  `json:"name_ru" validate:"required"`
	NameUZ          string                  `json:"name_uz" validate:"required"`
	DescriptionRU   string                  `json:"description_ru"`
	DescriptionUZ   string                  `json:"description_uz"`
	Price           int                     `json:"price" validate:"min=0"`
	Amount          int                     `json:"amount" validate:"min=0"`
	MinSell         int                     `json:"min_sell" validate:"omitempty,min=1"`
	Articul         string                  `json:"articul" validate:"omitempty,len=8,numeric"`
	Variants        []productVariantRequest `json:"variants,omitempty"`
	BulkPrices      []bulkPriceRequest      `json:"bulk_prices,omitempty" validate:"omitempty,dive"`
	Photos          []string                `json:"photos,omitempty"`
	Videos          []string                `json:"videos,omitempty"`
	Keywords        []string                `json:"keywords,omitempty"`
	Characteristics []characteristicRequest `json:"characteristics,omitempty" validate:"omitempty,dive"`
}

type replaceProductRequest struct {
	CategoryID      string                  `json:"category_id" validate:"required,uuid"`
	NameRU          string                  `json:"name_ru" validate:"required"`
	NameUZ          string                  `json:"name_uz" validate:"required"`
	DescriptionRU   string                  `json:"description_ru"`
	DescriptionUZ   string                  `json:"description_uz"`
	Price           int                     `json:"price" validate:"min=0"`
	Amount          int                     `json:"amount" validate:"min=0"`
	MinSell         int                     `json:"min_sell" validate:"omitempty,min=1"`
	Variants        []productVariantRequest `json:"variants,omitempty"`
	BulkPrices      []bulkPriceRequest      `json:"bulk_prices,omitempty" validate:"omitempty,dive"`
	Photos          []string                `json:"photos,omitempty"`
	Videos          []string                `json:"videos,omitempty"`
	Keywords        []string                `json:"keywords,omitempty"`
	Characteristics []characteristicRequest `json:"characteristics,omitempty" validate:"omitempty,dive"`
}

func toVariantInputs(rows []productVariantRequest) []catalog.VariantInput {
	inputs := make([]catalog.VariantInput, len(rows))
	for i, row := range rows {
		inputs[i] = catalog.VariantInput{
			Color:           row.Color,
			Size:            row.Size,
			Stock:           row.Stock,
			Price:           row.Price,
			DiscountPercent: row.DiscountPercent,
			MinSell:         row.MinSell,
		}
	}
	return inputs
}

func toBulkPriceInputs(rows []bulkPriceRequest) []catalog.BulkPriceInput {
	inputs := make([]catalog.BulkPriceInput, len(rows))
	for i, row := range rows {
		inputs[i] = catalog.BulkPriceInput{
			MinQuantity:  row.MinQuantity,
			PricePerUnit: row.PricePerUnit,
		}
	}
	return inputs
}

func toCharacteristicInputs(rows []characteristicRequest) []catalog.CharacteristicInput {
	inputs := make([]catalog.CharacteristicInput, len(rows))
	for i, row := range rows {
		inputs[i] = catalog.CharacteristicInput{
			TitleUZ: row.TitleUZ,
			TitleRU: row.TitleRU,
			InfoUZ:  row.InfoUZ,
			InfoRU:  row.InfoRU,
		}
	}
	return inputs
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return id, nil
}

// CreateProduct inserts a listing with all its child collections.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopID, _ := uuid.Parse(payload.ShopID)
		categoryID, _ := uuid.Parse(payload.CategoryID)

		product, err := svc.CreateProduct(r.Context(), userID, catalog.CreateProductInput{
			ShopID:          shopID,
			CategoryID:      categoryID,
			NameRU:          payload.NameRU,
			NameUZ:          payload.NameUZ,
			DescriptionRU:   payload.DescriptionRU,
			DescriptionUZ:   payload.DescriptionUZ,
			Price:           payload.Price,
			Amount:          payload.Amount,
			MinSell:         payload.MinSell,
			Articul:         payload.Articul,
			Variants:        toVariantInputs(payload.Variants),
			BulkPrices:      toBulkPriceInputs(payload.BulkPrices),
			Photos:          payload.Photos,
			Videos:          payload.Videos,
			Keywords:        payload.Keywords,
			Characteristics: toCharacteristicInputs(payload.Characteristics),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ReplaceProduct overwrites the listing wholesale. Any child collection
// missing from the payload is cleared.
func ReplaceProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, _ := uuid.Parse(payload.CategoryID)

		product, err := svc.ReplaceProduct(r.Context(), userID, productID, catalog.ReplaceProductInput{
			CategoryID:      categoryID,
			NameRU:          payload.NameRU,
			NameUZ:          payload.NameUZ,
			DescriptionRU:   payload.DescriptionRU,
			DescriptionUZ:   payload.DescriptionUZ,
			Price:           payload.Price,
			Amount:          payload.Amount,
			MinSell:         payload.MinSell,
			Variants:        toVariantInputs(payload.Variants),
			BulkPrices:      toBulkPriceInputs(payload.BulkPrices),
			Photos:          payload.Photos,
			Videos:          payload.Videos,
			Keywords:        payload.Keywords,
			Characteristics: toCharacteristicInputs(payload.Characteristics),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), userID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type productListResponse struct {
	Products   []catalog.ProductDTO `json:"products"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// ListProducts returns a cursor page filtered by shop, category, or name.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopID, err := validators.ParseQueryUUID(r, "shop_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Pagination: params,
			Filters: catalog.ListFilters{
				ShopID:     shopID,
				CategoryID: categoryID,
				Query:      r.URL.Query().Get("q"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := productListResponse{
			Products:   make([]catalog.ProductDTO, len(result.Products)),
			NextCursor: result.NextCursor,
		}
		for i := range result.Products {
			page.Products[i] = *catalog.NewProductDTO(&result.Products[i])
		}

		responses.WriteSuccess(w, page)
	}
}
