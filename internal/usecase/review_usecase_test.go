package usecase_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newReviewUsecase() (*usecase.ReviewUsecase, *ReviewRepoMock, *ProductRepoMock) {
	rRepo := new(ReviewRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewReviewUsecase(rRepo, pRepo)
	return uc, rRepo, pRepo
}

func TestReviewUsecase_ListReviews_ProductNotFound(t *testing.T) {
	uc, _, pRepo := newReviewUsecase()

	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.ListReviews(context.Background(), 99)
	assertErrContains(t, err, "product not found")
}

// 別商品のレビューは「存在しない扱い」
func TestReviewUsecase_GetReview_WrongProduct(t *testing.T) {
	uc, rRepo, _ := newReviewUsecase()

	rRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Review{ID: 5, ProductID: 2}, nil)

	_, err := uc.GetReview(context.Background(), 1, 5)
	assertErrContains(t, err, "review not found")
}

func TestReviewUsecase_CreateReview_Validation(t *testing.T) {
	uc, _, _ := newReviewUsecase()

	_, err := uc.CreateReview(context.Background(), 1, usecase.CreateReviewInput{Name: " ", Description: "good"})
	assertErrContains(t, err, "name required")
}

func TestReviewUsecase_CreateReview_Success(t *testing.T) {
	uc, rRepo, pRepo := newReviewUsecase()

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1}, nil)
	rRepo.On("Create", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
		return r.ProductID == 1 && r.Name == "taro"
	})).Return(model.Review{ID: 5, ProductID: 1, Name: "taro"}, nil)

	rev, err := uc.CreateReview(context.Background(), 1, usecase.CreateReviewInput{Name: " taro ", Description: "good"})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), rev.ID)
}

func TestReviewUsecase_AdminDeleteReview_Success(t *testing.T) {
	uc, rRepo, _ := newReviewUsecase()

	rRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Review{ID: 5, ProductID: 1}, nil)
	rRepo.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := uc.AdminDeleteReview(context.Background(), 1, 1, 5)
	assert.NoError(t, err)

	rRepo.AssertExpectations(t)
}
