package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧用。products_countを載せて返す
type CollectionWithCount struct {
	model.Collection
	ProductsCount int64 `json:"products_count"`
}

type CollectionRepository interface {
	List(ctx context.Context) ([]CollectionWithCount, error)
	FindByID(ctx context.Context, id int64) (CollectionWithCount, error)
	Create(ctx context.Context, c model.Collection) (model.Collection, error)
	Update(ctx context.Context, c model.Collection) error
	Delete(ctx context.Context, id int64) error
}
