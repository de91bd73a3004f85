package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCheckout_Unauthorized(t *testing.T) {
	tx := &txManagerStub{repos: newTxReposStub()}
	uc := usecase.NewCheckoutUsecase(tx, newPublisherStub())

	_, err := uc.Checkout(context.Background(), 0, usecase.CheckoutInput{CartID: "tok"})
	assertErrContains(t, err, "unauthorized")
	assert.Equal(t, 0, tx.calls)
}

func TestCheckout_EmptyCartID(t *testing.T) {
	tx := &txManagerStub{repos: newTxReposStub()}
	uc := usecase.NewCheckoutUsecase(tx, newPublisherStub())

	_, err := uc.Checkout(context.Background(), 7, usecase.CheckoutInput{CartID: "  "})
	assertErrContains(t, err, "cart_id required")
	assert.Equal(t, 0, tx.calls)
}

func TestCheckout_CartNotFound(t *testing.T) {
	repos := newTxReposStub()
	uc := usecase.NewCheckoutUsecase(&txManagerStub{repos: repos}, newPublisherStub())

	repos.carts.On("FindByTokenForUpdate", mock.Anything, "missing").Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.Checkout(context.Background(), 7, usecase.CheckoutInput{CartID: "missing"})
	assertErrContains(t, err, "cart not found")

	//注文は作られない
	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_EmptyCart(t *testing.T) {
	repos := newTxReposStub()
	uc := usecase.NewCheckoutUsecase(&txManagerStub{repos: repos}, newPublisherStub())

	repos.carts.On("FindByTokenForUpdate", mock.Anything, "tok").Return(model.Cart{ID: "tok"}, nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, "tok").Return([]model.CartItem{}, nil)

	_, err := uc.Checkout(context.Background(), 7, usecase.CheckoutInput{CartID: "tok"})
	assertErrContains(t, err, "empty cart")

	//カートは残る
	repos.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// カートに入ったまま論理削除された商品があると確定できない。
// Preloadは削除済み商品を返さないので、Productがゼロ値の明細で検知する
func TestCheckout_ProductRemovedWhileCarted(t *testing.T) {
	repos := newTxReposStub()
	uc := usecase.NewCheckoutUsecase(&txManagerStub{repos: repos}, newPublisherStub())

	repos.carts.On("FindByTokenForUpdate", mock.Anything, "tok").Return(model.Cart{ID: "tok"}, nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, "tok").Return([]model.CartItem{
		{ID: 1, CartID: "tok", ProductID: 10, Quantity: 2, Product: model.Product{ID: 10, Title: "Coffee", Price: 1000}},
		{ID: 2, CartID: "tok", ProductID: 20, Quantity: 1},
	}, nil)

	_, err := uc.Checkout(context.Background(), 7, usecase.CheckoutInput{CartID: "tok"})
	assertErrContains(t, err, "product no longer available")

	//unit_price=0のスナップショットは作られず、カートも残る
	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	repos.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckout_CustomerNotFound(t *testing.T) {
	repos := newTxReposStub()
	uc := usecase.NewCheckoutUsecase(&txManagerStub{repos: repos}, newPublisherStub())

	repos.carts.On("FindByTokenForUpdate", mock.Anything, "tok").Return(model.Cart{ID: "tok"}, nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, "tok").Return([]model.CartItem{
		{ID: 1, CartID: "tok", ProductID: 1, Quantity: 1, Product: model.Product{ID: 1, Price: 1000}},
	}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).Return(model.Customer{}, repo.ErrNotFound)

	_, err := uc.Checkout(context.Background(), 7, usecase.CheckoutInput{CartID: "tok"})
	assertErrContains(t, err, "customer not found")

	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 2×1000円 + 1×500円 = 2500円。明細数はカート明細数と同じで、カートは消える
func TestCheckout_Success(t *testing.T) {
	repos := newTxReposStub()
	pub := newPublisherStub()
	uc := usecase.NewCheckoutUsecase(&txManagerStub{repos: repos}, pub)

	cartItems := []model.CartItem{
		{ID: 1, CartID: "tok", ProductID: 10, Quantity: 2, Product: model.Product{ID: 10, Title: "Coffee", Price: 1000}},
		{ID: 2, CartID: "tok", ProductID: 20, Quantity: 1, Product: model.Product{ID: 20, Title: "Mug", Price: 500}},
	}

	repos.carts.On("FindByTokenForUpdate", mock.Anything, "tok").Return(model.Cart{ID: "tok"}, nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, "tok").Return(cartItems, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).Return(model.Customer{ID: 3, UserID: 7}, nil)

	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 3 && o.PaymentStatus == model.PaymentStatusPending
	})).Return(int64(42), nil)

	//unit_priceはカート時点の商品価格のコピー
	repos.orderItems.On("CreateBulk", mock.Anything, int64(42), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		return items[0].ProductID == 10 && items[0].UnitPrice == 1000 && items[0].Quantity == 2 &&
			items[1].ProductID == 20 && items[1].UnitPrice == 500 && items[1].Quantity == 1
	})).Return(nil)

	repos.carts.On("Delete", mock.Anything, "tok").Return(nil)

	out, err := uc.Checkout(context.Background(), 7, usecase.CheckoutInput{CartID: "tok"})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, int64(3), out.CustomerID)
	assert.Equal(t, "PENDING", out.PaymentStatus)
	assert.Equal(t, int64(2500), out.TotalPrice)
	assert.Equal(t, 2, len(out.Items))
	assert.Equal(t, int64(1000), out.Items[0].UnitPrice)
	assert.Equal(t, int64(500), out.Items[1].UnitPrice)

	//コミット後にイベントが飛ぶ
	evt := waitForEvent(t, pub)
	assert.Equal(t, int64(42), evt.OrderID)
	assert.Equal(t, int64(2500), evt.TotalPrice)
	assert.Equal(t, 2, len(evt.Items))

	repos.carts.AssertExpectations(t)
	repos.orders.AssertExpectations(t)
	repos.orderItems.AssertExpectations(t)
}

// 通知が失敗してもcheckoutは成功のまま
func TestCheckout_PublisherFailureDoesNotFailCheckout(t *testing.T) {
	repos := newTxReposStub()
	pub := newPublisherStub()
	pub.err = errors.New("broker down")
	uc := usecase.NewCheckoutUsecase(&txManagerStub{repos: repos}, pub)

	repos.carts.On("FindByTokenForUpdate", mock.Anything, "tok").Return(model.Cart{ID: "tok"}, nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, "tok").Return([]model.CartItem{
		{ID: 1, CartID: "tok", ProductID: 10, Quantity: 1, Product: model.Product{ID: 10, Price: 1000}},
	}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).Return(model.Customer{ID: 3, UserID: 7}, nil)
	repos.orders.On("Create", mock.Anything, mock.AnythingOfType("model.Order")).Return(int64(42), nil)
	repos.orderItems.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)
	repos.carts.On("Delete", mock.Anything, "tok").Return(nil)

	out, err := uc.Checkout(context.Background(), 7, usecase.CheckoutInput{CartID: "tok"})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)

	waitForEvent(t, pub)
}

// トランザクション内の失敗はそのままエラーになり、イベントも飛ばない
func TestCheckout_CreateBulkFailure(t *testing.T) {
	repos := newTxReposStub()
	pub := newPublisherStub()
	uc := usecase.NewCheckoutUsecase(&txManagerStub{repos: repos}, pub)

	repos.carts.On("FindByTokenForUpdate", mock.Anything, "tok").Return(model.Cart{ID: "tok"}, nil)
	repos.cartItems.On("ListByCartToken", mock.Anything, "tok").Return([]model.CartItem{
		{ID: 1, CartID: "tok", ProductID: 10, Quantity: 1, Product: model.Product{ID: 10, Price: 1000}},
	}, nil)
	repos.customers.On("FindByUserID", mock.Anything, int64(7)).Return(model.Customer{ID: 3}, nil)
	repos.orders.On("Create", mock.Anything, mock.AnythingOfType("model.Order")).Return(int64(42), nil)
	repos.orderItems.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(errors.New("db down"))

	_, err := uc.Checkout(context.Background(), 7, usecase.CheckoutInput{CartID: "tok"})
	assertErrContains(t, err, "db error")

	assert.Equal(t, 0, len(pub.published))
}
