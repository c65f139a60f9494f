package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/aziznur-dev/bozorplace-backend/internal/catalog"
	"github.com/aziznur-dev/bozorplace-backend/internal/inventory"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes customer order operations.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID) (*OrderDTO, error)
	AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*OrderDTO, error)
	RemoveItem(ctx context.Context, customerID, orderID, itemID uuid.UUID) (*OrderDTO, error)
	Get(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error)
	Delete(ctx context.Context, customerID, orderID uuid.UUID) error
}

// AddItemInput identifies the product and quantity to append.
type AddItemInput struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

type service struct {
	repo     *Repository
	ledger   *inventory.Ledger
	dbClient *db.Client
}

// NewService constructs an order service instance.
func NewService(repo *Repository, ledger *inventory.Ledger, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, ledger: ledger, dbClient: dbClient}, nil
}

// Create opens an empty order with a zero total.
func (s *service) Create(ctx context.Context, customerID uuid.UUID) (*OrderDTO, error) {
	order := &models.Order{CustomerID: customerID}
	if _, err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}
	return NewOrderDTO(order), nil
}

// AddItem prices the product for the requested quantity, reserves stock, and
// appends the line inside one transaction. The captured unit price is a
// snapshot: later changes to the product or its tiers never touch it.
func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*OrderDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txLedger := s.ledger.WithTx(tx)

		order, err := s.loadOwnedOrder(ctx, txRepo, customerID, input.OrderID)
		if err != nil {
			return err
		}

		product, err := txRepo.FindProductWithTiers(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if input.Quantity < product.MinSell {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity below minimum sale amount (%d)", product.MinSell))
		}

		unitPrice := catalog.PriceForQuantity(product.Price, product.BulkPrices, input.Quantity)

		if err := txLedger.Reserve(ctx, product.ID, input.Quantity); err != nil {
			return err
		}

		item := &models.OrderItem{
			OrderID:      order.ID,
			ProductID:    product.ID,
			Quantity:     input.Quantity,
			PricePerUnit: unitPrice,
		}
		if _, err := txRepo.InsertItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order item")
		}

		return recomputeTotal(ctx, txRepo, order.ID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add order item")
	}

	return s.Get(ctx, customerID, input.OrderID)
}

// RemoveItem deletes the line and recomputes the total. Stock is not
// returned: the ledger only moves on reservation and explicit restock.
func (s *service) RemoveItem(ctx context.Context, customerID, orderID, itemID uuid.UUID) (*OrderDTO, error) {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := s.loadOwnedOrder(ctx, txRepo, customerID, orderID)
		if err != nil {
			return err
		}

		item, err := txRepo.FindItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order item")
		}
		if item.OrderID != order.ID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}

		if err := txRepo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order item")
		}

		return recomputeTotal(ctx, txRepo, order.ID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove order item")
	}

	return s.Get(ctx, customerID, orderID)
}

// Get returns the order with its items.
func (s *service) Get(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwnedOrder(ctx, s.repo, customerID, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

// ListByCustomer returns every order the customer owns, newest first.
func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	dtos := make([]OrderDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewOrderDTO(&rows[i])
	}
	return dtos, nil
}

// Delete removes the order and its items. Reserved stock stays debited.
func (s *service) Delete(ctx context.Context, customerID, orderID uuid.UUID) error {
	if _, err := s.loadOwnedOrder(ctx, s.repo, customerID, orderID); err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// recomputeTotal derives the total from the item rows and persists it. Every
// item mutation calls this explicitly; nothing else writes total_price.
func recomputeTotal(ctx context.Context, repo *Repository, orderID uuid.UUID) error {
	total, err := repo.SumItems(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum order items")
	}
	if err := repo.UpdateTotal(ctx, orderID, total); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order total")
	}
	return nil
}

func (s *service) loadOwnedOrder(ctx context.Context, repo *Repository, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return order, nil
}
