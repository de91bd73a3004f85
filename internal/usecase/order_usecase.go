package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// OrderUsecase は確定済み注文の参照と管理操作。
// 所有者または管理者だけが注文を見られる（他人の注文は「存在しない扱い」）。
type OrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	customerRepo  repo.CustomerRepository
	auditRepo     repo.AuditLogRepository
	clock         Clock
}

func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	customerRepo repo.CustomerRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		customerRepo:  customerRepo,
		auditRepo:     auditRepo,
		clock:         clock,
	}
}

type ListOrdersInput struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ListOrders は管理者なら全注文、そうでなければ自分の注文だけを返す。
func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64, isStaff bool, in ListOrdersInput) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewUnauthorized()
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Status != "" {
		if err := validatePaymentStatus(in.Status); err != nil {
			return OrderListOutput{}, err
		}
	}

	var orders []model.Order
	var total int64
	var err error

	if isStaff {
		orders, total, err = u.orderRepo.ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:       in.Page,
			Limit:      in.Limit,
			Status:     in.Status,
			CustomerID: in.CustomerID,
			From:       in.From,
			To:         in.To,
		})
		if err != nil {
			return OrderListOutput{}, NewInternal("db error")
		}
	} else {
		customer, cerr := u.customerRepo.FindByUserID(ctx, userID)
		if errors.Is(cerr, repo.ErrNotFound) {
			return OrderListOutput{}, NewNotFound("customer")
		}
		if cerr != nil {
			return OrderListOutput{}, NewInternal("db error")
		}

		orders, total, err = u.orderRepo.ListByCustomerID(ctx, customer.ID, in.Page, in.Limit)
		if err != nil {
			return OrderListOutput{}, NewInternal("db error")
		}
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, ierr := u.orderItemRepo.ListByOrderID(ctx, o.ID)
		if ierr != nil {
			return OrderListOutput{}, NewInternal("db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}

	return OrderListOutput{Items: outs, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// GetOrderDetail は所有者または管理者だけが見られる。
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, userID int64, isStaff bool, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewValidation("invalid id")
	}

	o, err := u.findOwnedOrder(ctx, userID, isStaff, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewInternal("db error")
	}

	return toOrderOutput(o, items), nil
}

// UpdatePaymentStatus は支払いステータスを更新する。管理者専用。
// placed_atや明細は変更不可。
func (u *OrderUsecase) UpdatePaymentStatus(ctx context.Context, userID int64, isStaff bool, orderID int64, status string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewUnauthorized()
	}
	if !isStaff {
		return OrderOutput{}, NewForbidden("admin only")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewValidation("invalid id")
	}
	if err := validatePaymentStatus(status); err != nil {
		return OrderOutput{}, err
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewNotFound("order")
	}
	if err != nil {
		return OrderOutput{}, NewInternal("db error")
	}

	newStatus := model.PaymentStatus(status)
	if err := u.orderRepo.UpdatePaymentStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, NewNotFound("order")
		}
		return OrderOutput{}, NewInternal("db error")
	}

	u.writeAudit(ctx, userID, model.AuditActionUpdateOrderStatus, orderID,
		map[string]string{"payment_status": string(o.PaymentStatus)},
		map[string]string{"payment_status": status})

	o.PaymentStatus = newStatus
	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewInternal("db error")
	}
	return toOrderOutput(o, items), nil
}

// DeleteOrder は注文を明細ごと削除する。管理者専用。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, userID int64, isStaff bool, orderID int64) error {
	if userID <= 0 {
		return NewUnauthorized()
	}
	if !isStaff {
		return NewForbidden("admin only")
	}
	if orderID <= 0 {
		return NewValidation("invalid id")
	}

	if _, err := u.orderRepo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("order")
		}
		return NewInternal("db error")
	}

	if err := u.orderRepo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("order")
		}
		return NewInternal("db error")
	}

	u.writeAudit(ctx, userID, model.AuditActionDeleteOrder, orderID, nil, nil)
	return nil
}

// 管理者は誰の注文でも、そうでなければ自分の注文だけ。
// 他人の注文はnot found扱いで存在を漏らさない
func (u *OrderUsecase) findOwnedOrder(ctx context.Context, userID int64, isStaff bool, orderID int64) (model.Order, error) {
	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewNotFound("order")
	}
	if err != nil {
		return model.Order{}, NewInternal("db error")
	}

	if isStaff {
		return o, nil
	}

	customer, err := u.customerRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewNotFound("order")
	}
	if err != nil {
		return model.Order{}, NewInternal("db error")
	}
	if o.CustomerID != customer.ID {
		return model.Order{}, NewNotFound("order")
	}

	return o, nil
}

func validatePaymentStatus(status string) error {
	switch model.PaymentStatus(status) {
	case model.PaymentStatusPending, model.PaymentStatusComplete, model.PaymentStatusFailed:
		return nil
	default:
		return NewValidation("invalid payment_status")
	}
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			Product: ProductBrief{
				ID:    it.Product.ID,
				Title: it.Product.Title,
				Price: it.Product.Price,
			},
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
		total += it.UnitPrice * it.Quantity
	}

	return OrderOutput{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: string(o.PaymentStatus),
		TotalPrice:    total,
		Items:         outItems,
	}
}

func (u *OrderUsecase) writeAudit(ctx context.Context, actorUserID int64, action model.AuditAction, orderID int64, before any, after any) {
	log := model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		CreatedAt:    u.clock.Now(),
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			log.BeforeJSON = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			log.AfterJSON = string(a)
		}
	}

	_ = u.auditRepo.Create(ctx, log)
}
