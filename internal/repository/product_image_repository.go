package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ProductImageRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error)
	Create(ctx context.Context, image model.ProductImage) (model.ProductImage, error)
	Delete(ctx context.Context, imageID int64) error
}
