package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品一覧の検索条件
type ProductListQuery struct {
	Page         int
	Limit        int
	Q            string
	CollectionID *int64
	MinPrice     *int64
	MaxPrice     *int64
	Sort         string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	//コレクション配下の商品数（コレクション削除ガードで使う）
	CountByCollectionID(ctx context.Context, collectionID int64) (int64, error)
}
