package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CollectionGormRepository struct {
	db *gorm.DB
}

// DI
func NewCollectionGormRepository(db *gorm.DB) *CollectionGormRepository {
	return &CollectionGormRepository{db: db}
}

// 一覧。products_countはLEFT JOINで数える
func (r *CollectionGormRepository) List(ctx context.Context) ([]repo.CollectionWithCount, error) {
	var rows []repo.CollectionWithCount

	err := r.db.WithContext(ctx).
		Table("collections").
		Select("collections.*, count(products.id) as products_count").
		Joins("left join products on products.collection_id = collections.id and products.deleted_at is null").
		Group("collections.id").
		Order("collections.id asc").
		Scan(&rows).Error
	if err != nil {
		return []repo.CollectionWithCount{}, err
	}

	return rows, nil
}

func (r *CollectionGormRepository) FindByID(ctx context.Context, id int64) (repo.CollectionWithCount, error) {
	var c model.Collection
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.CollectionWithCount{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.CollectionWithCount{}, err
	}

	var count int64
	err = r.db.WithContext(ctx).Model(&model.Product{}).
		Where("collection_id = ?", id).
		Count(&count).Error
	if err != nil {
		return repo.CollectionWithCount{}, err
	}

	return repo.CollectionWithCount{Collection: c, ProductsCount: count}, nil
}

func (r *CollectionGormRepository) Create(ctx context.Context, c model.Collection) (model.Collection, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Collection{}, err
	}
	return c, nil
}

func (r *CollectionGormRepository) Update(ctx context.Context, c model.Collection) error {
	res := r.db.WithContext(ctx).Model(&model.Collection{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"title":               c.Title,
			"featured_product_id": c.FeaturedProductID,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CollectionGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Collection{}, id)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
