package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	//商品も一緒に読む（checkoutでのN+1回避）
	ListByCartToken(ctx context.Context, token string) ([]model.CartItem, error)

	// 同一商品はプラス
	UpsertByCartAndProduct(ctx context.Context, token string, productID int64, addQty int64) (model.CartItem, error)

	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
}
