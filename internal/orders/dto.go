package orders

import (
	"time"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/google/uuid"
)

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	TotalPrice int            `json:"total_price"`
	Items      []OrderItemDTO `json:"items"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// OrderItemDTO is one purchased line with its captured unit price.
type OrderItemDTO struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	Quantity     int       `json:"quantity"`
	PricePerUnit int       `json:"price_per_unit"`
	LineTotal    int       `json:"line_total"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		TotalPrice: order.TotalPrice,
		Items:      make([]OrderItemDTO, len(order.Items)),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	for i, item := range order.Items {
		dto.Items[i] = OrderItemDTO{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
			LineTotal:    item.LineTotal(),
			CreatedAt:    item.CreatedAt,
		}
	}
	return dto
}
