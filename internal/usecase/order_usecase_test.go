package usecase_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUsecase() (*usecase.OrderUsecase, *OrderRepoMock, *OrderItemRepoMock, *CustomerRepoMock, *AuditRepoMock) {
	oRepo := new(OrderRepoMock)
	oiRepo := new(OrderItemRepoMock)
	cRepo := new(CustomerRepoMock)
	aRepo := new(AuditRepoMock)
	clock := &fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	uc := usecase.NewOrderUsecase(oRepo, oiRepo, cRepo, aRepo, clock)
	return uc, oRepo, oiRepo, cRepo, aRepo
}

// 他人の注文は「存在しない扱い」
func TestOrderUsecase_GetOrderDetail_OtherUsersOrder(t *testing.T) {
	uc, oRepo, _, cRepo, _ := newOrderUsecase()

	oRepo.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, CustomerID: 999}, nil)
	cRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Customer{ID: 3, UserID: 7}, nil)

	_, err := uc.GetOrderDetail(context.Background(), 7, false, 42)
	assertErrContains(t, err, "order not found")
}

// 管理者は誰の注文でも見られる
func TestOrderUsecase_GetOrderDetail_AdminSeesAnyOrder(t *testing.T) {
	uc, oRepo, oiRepo, cRepo, _ := newOrderUsecase()

	oRepo.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, CustomerID: 999, PaymentStatus: model.PaymentStatusPending}, nil)
	oiRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{ID: 1, OrderID: 42, ProductID: 10, UnitPrice: 1000, Quantity: 2, Product: model.Product{ID: 10, Title: "Coffee", Price: 1200}},
	}, nil)

	out, err := uc.GetOrderDetail(context.Background(), 1, true, 42)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	//合計はスナップショットのunit_priceで計算される（現在価格の1200ではなく）
	assert.Equal(t, int64(2000), out.TotalPrice)

	cRepo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_GetOrderDetail_OwnerSeesOwnOrder(t *testing.T) {
	uc, oRepo, oiRepo, cRepo, _ := newOrderUsecase()

	oRepo.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, CustomerID: 3}, nil)
	cRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Customer{ID: 3, UserID: 7}, nil)
	oiRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	out, err := uc.GetOrderDetail(context.Background(), 7, false, 42)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
}

func TestOrderUsecase_ListOrders_NonStaffListsOwnOrders(t *testing.T) {
	uc, oRepo, oiRepo, cRepo, _ := newOrderUsecase()

	cRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Customer{ID: 3, UserID: 7}, nil)
	oRepo.On("ListByCustomerID", mock.Anything, int64(3), 1, 20).Return([]model.Order{{ID: 1, CustomerID: 3}}, int64(1), nil)
	oiRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	out, err := uc.ListOrders(context.Background(), 7, false, usecase.ListOrdersInput{Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, 1, len(out.Items))

	oRepo.AssertNotCalled(t, "ListAdmin", mock.Anything, mock.Anything)
}

func TestOrderUsecase_ListOrders_StaffUsesAdminFilter(t *testing.T) {
	uc, oRepo, oiRepo, cRepo, _ := newOrderUsecase()

	oRepo.On("ListAdmin", mock.Anything, mock.MatchedBy(func(f repo.AdminOrderListFilter) bool {
		return f.Status == "COMPLETE" && f.Page == 1 && f.Limit == 20
	})).Return([]model.Order{{ID: 1, CustomerID: 99, PaymentStatus: model.PaymentStatusComplete}}, int64(1), nil)
	oiRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	out, err := uc.ListOrders(context.Background(), 1, true, usecase.ListOrdersInput{Page: 1, Limit: 20, Status: "COMPLETE"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))

	cRepo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdatePaymentStatus_InvalidStatus(t *testing.T) {
	uc, _, _, _, _ := newOrderUsecase()

	_, err := uc.UpdatePaymentStatus(context.Background(), 1, true, 42, "PAID")
	assertErrContains(t, err, "invalid payment_status")
}

func TestOrderUsecase_UpdatePaymentStatus_Success(t *testing.T) {
	uc, oRepo, oiRepo, _, aRepo := newOrderUsecase()

	oRepo.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, CustomerID: 3, PaymentStatus: model.PaymentStatusPending}, nil)
	oRepo.On("UpdatePaymentStatus", mock.Anything, int64(42), model.PaymentStatusComplete).Return(nil)
	oiRepo.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 42 &&
			l.BeforeJSON == `{"payment_status":"PENDING"}` &&
			l.AfterJSON == `{"payment_status":"COMPLETE"}`
	})).Return(nil)

	out, err := uc.UpdatePaymentStatus(context.Background(), 1, true, 42, "COMPLETE")
	assert.NoError(t, err)
	assert.Equal(t, "COMPLETE", out.PaymentStatus)

	oRepo.AssertExpectations(t)
	aRepo.AssertExpectations(t)
}

// 削除は管理者専用
func TestOrderUsecase_DeleteOrder_NonStaffForbidden(t *testing.T) {
	uc, oRepo, _, _, _ := newOrderUsecase()

	err := uc.DeleteOrder(context.Background(), 7, false, 42)
	assertErrContains(t, err, "admin only")

	oRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// ステータス更新も管理者専用
func TestOrderUsecase_UpdatePaymentStatus_NonStaffForbidden(t *testing.T) {
	uc, oRepo, _, _, _ := newOrderUsecase()

	_, err := uc.UpdatePaymentStatus(context.Background(), 7, false, 42, "COMPLETE")
	assertErrContains(t, err, "admin only")

	oRepo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_DeleteOrder_Success(t *testing.T) {
	uc, oRepo, _, _, aRepo := newOrderUsecase()

	oRepo.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, CustomerID: 3}, nil)
	oRepo.On("Delete", mock.Anything, int64(42)).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteOrder && l.ResourceID == 42
	})).Return(nil)

	err := uc.DeleteOrder(context.Background(), 1, true, 42)
	assert.NoError(t, err)

	oRepo.AssertExpectations(t)
}
