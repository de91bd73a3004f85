package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ReviewRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)
	Create(ctx context.Context, review model.Review) (model.Review, error)
	Delete(ctx context.Context, reviewID int64) error
}
