package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CollectionUsecase struct {
	collectionRepo repo.CollectionRepository
	productRepo    repo.ProductRepository
	auditRepo      repo.AuditLogRepository
	clock          Clock
}

// DI
func NewCollectionUsecase(
	collectionRepo repo.CollectionRepository,
	productRepo repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *CollectionUsecase {
	return &CollectionUsecase{
		collectionRepo: collectionRepo,
		productRepo:    productRepo,
		auditRepo:      auditRepo,
		clock:          clock,
	}
}

type CollectionInput struct {
	Title             string
	FeaturedProductID *int64
}

func (u *CollectionUsecase) ListCollections(ctx context.Context) ([]repo.CollectionWithCount, error) {
	items, err := u.collectionRepo.List(ctx)
	if err != nil {
		return nil, NewInternal("db error")
	}
	return items, nil
}

func (u *CollectionUsecase) GetCollectionDetail(ctx context.Context, collectionID int64) (repo.CollectionWithCount, error) {
	if collectionID <= 0 {
		return repo.CollectionWithCount{}, NewValidation("invalid collection id")
	}

	c, err := u.collectionRepo.FindByID(ctx, collectionID)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.CollectionWithCount{}, NewNotFound("collection")
	}
	if err != nil {
		return repo.CollectionWithCount{}, NewInternal("db error")
	}
	return c, nil
}

func (u *CollectionUsecase) AdminCreateCollection(ctx context.Context, adminUserID int64, in CollectionInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewUnauthorized()
	}
	if strings.TrimSpace(in.Title) == "" {
		return 0, NewValidation("title required")
	}

	//featured_productを指定するなら実在チェック
	if in.FeaturedProductID != nil {
		if _, err := u.productRepo.FindByID(ctx, *in.FeaturedProductID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return 0, NewNotFound("product")
			}
			return 0, NewInternal("db error")
		}
	}

	c, err := u.collectionRepo.Create(ctx, model.Collection{
		Title:             strings.TrimSpace(in.Title),
		FeaturedProductID: in.FeaturedProductID,
	})
	if err != nil {
		return 0, NewInternal("db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionCreateCollection, c.ID, nil, c)
	return c.ID, nil
}

func (u *CollectionUsecase) AdminUpdateCollection(ctx context.Context, adminUserID int64, collectionID int64, in CollectionInput) error {
	if adminUserID <= 0 {
		return NewUnauthorized()
	}
	if collectionID <= 0 {
		return NewValidation("invalid collection id")
	}
	if strings.TrimSpace(in.Title) == "" {
		return NewValidation("title required")
	}

	before, err := u.collectionRepo.FindByID(ctx, collectionID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("collection")
	}
	if err != nil {
		return NewInternal("db error")
	}

	after := model.Collection{
		ID:                collectionID,
		Title:             strings.TrimSpace(in.Title),
		FeaturedProductID: in.FeaturedProductID,
	}

	err = u.collectionRepo.Update(ctx, after)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("collection")
	}
	if err != nil {
		return NewInternal("db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionUpdateCollection, collectionID, before.Collection, after)
	return nil
}

// 商品がぶら下がっているコレクションは消せない
func (u *CollectionUsecase) AdminDeleteCollection(ctx context.Context, adminUserID int64, collectionID int64) error {
	if adminUserID <= 0 {
		return NewUnauthorized()
	}
	if collectionID <= 0 {
		return NewValidation("invalid collection id")
	}

	count, err := u.productRepo.CountByCollectionID(ctx, collectionID)
	if err != nil {
		return NewInternal("db error")
	}
	if count > 0 {
		return NewInvalidState("collection has products")
	}

	err = u.collectionRepo.Delete(ctx, collectionID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound("collection")
	}
	if err != nil {
		return NewInternal("db error")
	}

	u.writeAudit(ctx, adminUserID, model.AuditActionDeleteCollection, collectionID, nil, nil)
	return nil
}

func (u *CollectionUsecase) writeAudit(ctx context.Context, actorUserID int64, action model.AuditAction, resourceID int64, before any, after any) {
	log := model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: model.AuditResourceCollection,
		ResourceID:   resourceID,
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
