package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/event"
	repo "storefront/internal/repository"
	"storefront/pkg/logging"
)

// CheckoutUsecase はカートを注文に変換する。
// 読み書きはすべて1つのトランザクションで行い、途中で失敗したら何も残さない。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	publisher event.Publisher
}

func NewCheckoutUsecase(tx repo.TransactionManager, publisher event.Publisher) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, publisher: publisher}
}

type CheckoutInput struct {
	CartID string
}

type ProductBrief struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
}

type OrderItemOutput struct {
	Product   ProductBrief `json:"product"`
	UnitPrice int64        `json:"unit_price"`
	Quantity  int64        `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	CustomerID    int64             `json:"customer_id"`
	PlacedAt      time.Time         `json:"placed_at"`
	PaymentStatus string            `json:"payment_status"`
	TotalPrice    int64             `json:"total_price"`
	Items         []OrderItemOutput `json:"items"`
}

// Checkout はカートの明細を注文スナップショットへ変換してカートを破棄する。
// 検証順: カート存在 → 明細あり → 顧客存在。最初に失敗したものを返す。
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewUnauthorized()
	}
	if strings.TrimSpace(in.CartID) == "" {
		return OrderOutput{}, NewValidation("cart_id required")
	}

	var out OrderOutput
	var evt event.OrderCreated

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カートを行ロック付きで取得。同じトークンの同時checkoutはここで直列化され、
		//負けた方は削除済みカートを見てnot foundになる
		cart, err := r.Carts().FindByTokenForUpdate(ctx, in.CartID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("cart")
		}
		if err != nil {
			return NewInternal("db error")
		}

		//明細＋商品をまとめて読む（明細ごとの読み直しはしない）
		cartItems, err := r.CartItems().ListByCartToken(ctx, cart.ID)
		if err != nil {
			return NewInternal("db error")
		}
		if len(cartItems) == 0 {
			return NewInvalidState("empty cart")
		}

		//カート投入後に論理削除された商品はPreloadに乗らずProductがゼロ値になる。
		//unit_price=0のスナップショットを作らないよう、確定自体を止める
		for _, ci := range cartItems {
			if ci.Product.ID == 0 {
				return NewInvalidState("product no longer available")
			}
		}

		//認証済みユーザーから顧客を引く
		customer, err := r.Customers().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("customer")
		}
		if err != nil {
			return NewInternal("db error")
		}

		//注文作成。placed_atはここで一度だけ決まる
		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			CustomerID:    customer.ID,
			PaymentStatus: model.PaymentStatusPending,
			PlacedAt:      now,
		})
		if err != nil {
			return NewInternal("db error")
		}

		//スナップショット。unit_priceはこの瞬間の商品価格のコピー
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			orderItems = append(orderItems, model.OrderItem{
				ProductID: ci.ProductID,
				UnitPrice: ci.Product.Price,
				Quantity:  ci.Quantity,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewInternal("db error")
		}

		//カート破棄（明細も消える）
		if err := r.Carts().Delete(ctx, cart.ID); err != nil {
			return NewInternal("db error")
		}

		outItems := make([]OrderItemOutput, 0, len(cartItems))
		evtItems := make([]event.OrderCreatedItem, 0, len(cartItems))
		var total int64 = 0

		for _, ci := range cartItems {
			outItems = append(outItems, OrderItemOutput{
				Product: ProductBrief{
					ID:    ci.Product.ID,
					Title: ci.Product.Title,
					Price: ci.Product.Price,
				},
				UnitPrice: ci.Product.Price,
				Quantity:  ci.Quantity,
			})
			evtItems = append(evtItems, event.OrderCreatedItem{
				ProductID: ci.ProductID,
				UnitPrice: ci.Product.Price,
				Quantity:  ci.Quantity,
			})
			total += ci.Product.Price * ci.Quantity
		}

		out = OrderOutput{
			ID:            orderID,
			CustomerID:    customer.ID,
			PlacedAt:      now,
			PaymentStatus: string(model.PaymentStatusPending),
			TotalPrice:    total,
			Items:         outItems,
		}

		evt = event.OrderCreated{
			OrderID:       orderID,
			CustomerID:    customer.ID,
			PaymentStatus: string(model.PaymentStatusPending),
			PlacedAt:      now,
			TotalPrice:    total,
			Items:         evtItems,
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//通知はコミット後に投げっぱなし。失敗してもcheckoutは成功のまま
	u.publishOrderCreated(evt)

	return out, nil
}

func (u *CheckoutUsecase) publishOrderCreated(evt event.OrderCreated) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := u.publisher.PublishOrderCreated(ctx, evt); err != nil {
			logging.Log(logging.Fields{
				Service: "storefront",
				OrderID: evt.OrderID,
				Step:    "order_created_publish",
				Status:  "failed",
				Message: err.Error(),
			})
		}
	}()
}
