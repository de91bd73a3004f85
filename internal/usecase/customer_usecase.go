package usecase

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CustomerUsecase struct {
	customerRepo repo.CustomerRepository
	clock        Clock
}

// DI
func NewCustomerUsecase(customerRepo repo.CustomerRepository, clock Clock) *CustomerUsecase {
	return &CustomerUsecase{customerRepo: customerRepo, clock: clock}
}

type UpdateMyProfileInput struct {
	Phone      string
	BirthDate  *time.Time
	Membership string
}

type CustomerListOutput struct {
	Items []model.Customer `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// GetMe は自分の顧客プロフィールを返す。
func (u *CustomerUsecase) GetMe(ctx context.Context, userID int64) (model.Customer, error) {
	if userID <= 0 {
		return model.Customer{}, NewUnauthorized()
	}

	c, err := u.customerRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewNotFound("customer")
	}
	if err != nil {
		return model.Customer{}, NewInternal("db error")
	}
	return c, nil
}

// UpdateMe は自分の顧客プロフィールを更新する。
func (u *CustomerUsecase) UpdateMe(ctx context.Context, userID int64, in UpdateMyProfileInput) (model.Customer, error) {
	if userID <= 0 {
		return model.Customer{}, NewUnauthorized()
	}

	membership := model.Membership(in.Membership)
	switch membership {
	case model.MembershipBronze, model.MembershipSilver, model.MembershipGold:
	case "":
		//未指定なら据え置き
	default:
		return model.Customer{}, NewValidation("invalid membership")
	}

	c, err := u.customerRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewNotFound("customer")
	}
	if err != nil {
		return model.Customer{}, NewInternal("db error")
	}

	c.Phone = in.Phone
	c.BirthDate = in.BirthDate
	if membership != "" {
		c.Membership = membership
	}
	c.UpdatedAt = u.clock.Now()

	if err := u.customerRepo.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Customer{}, NewNotFound("customer")
		}
		return model.Customer{}, NewInternal("db error")
	}

	return c, nil
}

// AdminListCustomers は管理者向けの顧客一覧。
func (u *CustomerUsecase) AdminListCustomers(ctx context.Context, adminUserID int64, page int, limit int) (CustomerListOutput, error) {
	if adminUserID <= 0 {
		return CustomerListOutput{}, NewUnauthorized()
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := u.customerRepo.List(ctx, page, limit)
	if err != nil {
		return CustomerListOutput{}, NewInternal("db error")
	}

	return CustomerListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// AdminGetCustomer は管理者向けの顧客詳細。
func (u *CustomerUsecase) AdminGetCustomer(ctx context.Context, adminUserID int64, customerID int64) (model.Customer, error) {
	if adminUserID <= 0 {
		return model.Customer{}, NewUnauthorized()
	}
	if customerID <= 0 {
		return model.Customer{}, NewValidation("invalid customer id")
	}

	c, err := u.customerRepo.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewNotFound("customer")
	}
	if err != nil {
		return model.Customer{}, NewInternal("db error")
	}
	return c, nil
}
