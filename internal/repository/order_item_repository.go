package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error

	//商品も一緒に読む
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	//商品を参照する明細数（商品削除ガードで使う）
	CountByProductID(ctx context.Context, productID int64) (int64, error)
}
