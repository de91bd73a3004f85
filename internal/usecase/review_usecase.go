package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
}

// DI
func NewReviewUsecase(reviewRepo repo.ReviewRepository, productRepo repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo, productRepo: productRepo}
}

type CreateReviewInput struct {
	Name        string
	Description string
}

func (u *ReviewUsecase) ListReviews(ctx context.Context, productID int64) ([]model.Review, error) {
	if productID <= 0 {
		return nil, NewValidation("invalid product id")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("product")
		}
		return nil, NewInternal("db error")
	}

	items, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewInternal("db error")
	}
	return items, nil
}

func (u *ReviewUsecase) GetReview(ctx context.Context, productID int64, reviewID int64) (model.Review, error) {
	if productID <= 0 || reviewID <= 0 {
		return model.Review{}, NewValidation("invalid id")
	}

	rev, err := u.reviewRepo.FindByID(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, NewNotFound("review")
	}
	if err != nil {
		return model.Review{}, NewInternal("db error")
	}

	//別商品のレビューは「存在しない扱い」にする
	if rev.ProductID != productID {
		return model.Review{}, NewNotFound("review")
	}
	return rev, nil
}

func (u *ReviewUsecase) CreateReview(ctx context.Context, productID int64, in CreateReviewInput) (model.Review, error) {
	if productID <= 0 {
		return model.Review{}, NewValidation("invalid product id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Review{}, NewValidation("name required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return model.Review{}, NewValidation("description required")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Review{}, NewNotFound("product")
		}
		return model.Review{}, NewInternal("db error")
	}

	rev, err := u.reviewRepo.Create(ctx, model.Review{
		ProductID:   productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
	})
	if err != nil {
		return model.Review{}, NewInternal("db error")
	}
	return rev, nil
}

func (u *ReviewUsecase) AdminDeleteReview(ctx context.Context, adminUserID int64, productID int64, reviewID int64) error {
	if adminUserID <= 0 {
		return NewUnauthorized()
	}

	//商品との紐づき確認込み
	if _, err := u.GetReview(ctx, productID, reviewID); err != nil {
		return err
	}

	err := u.reviewRepo.Delete(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("review")
	}
	if err != nil {
		return NewInternal("db error")
	}
	return nil
}
