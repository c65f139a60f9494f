package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aziznur-dev/bozorplace-backend/pkg/db"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes review operations. Every mutation recomputes the product
// rating in the same transaction.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
}

type CreateReviewInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string   `json:"comment" validate:"omitempty,max=2000"`
}

type UpdateReviewInput struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewDTO is the review payload returned to clients.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newReviewDTO(review *models.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:        review.ID,
		UserID:    review.UserID,
		ProductID: review.ProductID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a review service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// Create stores the review after checking purchase eligibility and refreshes
// the product rating.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		exists, err := txRepo.ProductExists(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}

		purchased, err := txRepo.HasPurchased(ctx, userID, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase")
		}
		if !purchased {
			return pkgerrors.New(pkgerrors.CodeNotPurchased, "product must be purchased before reviewing")
		}

		if _, err := txRepo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed by user")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
		}

		return refreshProductRating(ctx, txRepo, input.ProductID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	return newReviewDTO(review), nil
}

// Update rewrites the user's review and refreshes the product rating.
func (s *service) Update(ctx context.Context, userID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	var updated *models.Review
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		review, err := s.loadOwnedReview(ctx, txRepo, userID, reviewID)
		if err != nil {
			return err
		}

		review.Rating = input.Rating
		review.Comment = input.Comment
		if err := txRepo.Update(ctx, review); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update review")
		}
		updated = review

		return refreshProductRating(ctx, txRepo, review.ProductID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}

	return newReviewDTO(updated), nil
}

// Delete removes the user's review and refreshes the product rating.
func (s *service) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		review, err := s.loadOwnedReview(ctx, txRepo, userID, reviewID)
		if err != nil {
			return err
		}

		if err := txRepo.Delete(ctx, review.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete review")
		}

		return refreshProductRating(ctx, txRepo, review.ProductID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

// ListByProduct returns the product's reviews newest first.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	dtos := make([]ReviewDTO, len(rows))
	for i := range rows {
		dtos[i] = *newReviewDTO(&rows[i])
	}
	return dtos, nil
}

// refreshProductRating derives the mean rating from the surviving reviews and
// writes it to the product row. Callers run it inside the mutating
// transaction so the product never exposes a stale rating.
func refreshProductRating(ctx context.Context, repo *Repository, productID uuid.UUID) error {
	avg, err := repo.AverageRating(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: average rating")
	}
	if err := repo.SetProductRating(ctx, productID, avg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set product rating")
	}
	return nil
}

func (s *service) loadOwnedReview(ctx context.Context, repo *Repository, userID, reviewID uuid.UUID) (*models.Review, error) {
	review, err := repo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if review.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "review does not belong to user")
	}
	return review, nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}
