package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	//新しい匿名カートを作る。トークンは呼び出し側で採番する
	Create(ctx context.Context, cart model.Cart) (model.Cart, error)

	FindByToken(ctx context.Context, token string) (model.Cart, error)

	//checkout用。トランザクション内で行ロックを取って取得する
	FindByTokenForUpdate(ctx context.Context, token string) (model.Cart, error)

	//カートを削除する。明細も一緒に消す
	Delete(ctx context.Context, token string) error
}
