package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 顧客プロフィールの保存・取得を約束
type CustomerRepository interface {
	Create(ctx context.Context, customer model.Customer) (model.Customer, error)
	FindByID(ctx context.Context, customerID int64) (model.Customer, error)

	//認証済みユーザーから顧客を引く
	FindByUserID(ctx context.Context, userID int64) (model.Customer, error)

	Update(ctx context.Context, customer model.Customer) error
	List(ctx context.Context, page int, limit int) ([]model.Customer, int64, error)
}
