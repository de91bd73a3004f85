package event

import (
	"context"
	"time"

	"storefront/pkg/logging"
)

// 注文確定イベント。通知側（メール等）が購読する
type OrderCreatedItem struct {
	ProductID int64 `json:"product_id"`
	UnitPrice int64 `json:"unit_price"`
	Quantity  int64 `json:"quantity"`
}

type OrderCreated struct {
	OrderID       int64              `json:"order_id"`
	CustomerID    int64              `json:"customer_id"`
	PaymentStatus string             `json:"payment_status"`
	PlacedAt      time.Time          `json:"placed_at"`
	TotalPrice    int64              `json:"total_price"`
	Items         []OrderCreatedItem `json:"items"`
}

// 送信は届けば儲けもの。失敗してもcheckoutは失敗しない
type Publisher interface {
	PublishOrderCreated(ctx context.Context, evt OrderCreated) error
}

// ブローカー未設定のときの実装。ログに吐くだけ
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) PublishOrderCreated(ctx context.Context, evt OrderCreated) error {
	logging.Log(logging.Fields{
		Service: "storefront",
		OrderID: evt.OrderID,
		Step:    "order_created",
		Status:  "published_log_only",
	})
	return nil
}
