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

func newCollectionUsecase() (*usecase.CollectionUsecase, *CollectionRepoMock, *ProductRepoMock, *AuditRepoMock) {
	cRepo := new(CollectionRepoMock)
	pRepo := new(ProductRepoMock)
	aRepo := new(AuditRepoMock)
	clock := &fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	uc := usecase.NewCollectionUsecase(cRepo, pRepo, aRepo, clock)
	return uc, cRepo, pRepo, aRepo
}

func TestCollectionUsecase_List(t *testing.T) {
	uc, cRepo, _, _ := newCollectionUsecase()

	cRepo.On("List", mock.Anything).Return([]repo.CollectionWithCount{
		{Collection: model.Collection{ID: 1, Title: "Drinks"}, ProductsCount: 3},
	}, nil)

	items, err := uc.ListCollections(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, int64(3), items[0].ProductsCount)
}

func TestCollectionUsecase_AdminCreate_FeaturedProductNotFound(t *testing.T) {
	uc, cRepo, pRepo, _ := newCollectionUsecase()

	featured := int64(99)
	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AdminCreateCollection(context.Background(), 1, usecase.CollectionInput{
		Title:             "Drinks",
		FeaturedProductID: &featured,
	})
	assertErrContains(t, err, "product not found")

	cRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 商品がぶら下がっているコレクションは消せない
func TestCollectionUsecase_AdminDelete_HasProducts(t *testing.T) {
	uc, cRepo, pRepo, _ := newCollectionUsecase()

	pRepo.On("CountByCollectionID", mock.Anything, int64(1)).Return(int64(5), nil)

	err := uc.AdminDeleteCollection(context.Background(), 1, 1)
	assertErrContains(t, err, "collection has products")

	cRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCollectionUsecase_AdminDelete_Success(t *testing.T) {
	uc, cRepo, pRepo, aRepo := newCollectionUsecase()

	pRepo.On("CountByCollectionID", mock.Anything, int64(1)).Return(int64(0), nil)
	cRepo.On("Delete", mock.Anything, int64(1)).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteCollection && l.ResourceID == 1
	})).Return(nil)

	err := uc.AdminDeleteCollection(context.Background(), 1, 1)
	assert.NoError(t, err)

	cRepo.AssertExpectations(t)
}
