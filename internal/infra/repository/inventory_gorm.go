package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫を設定して調整履歴を残す。2つの書き込みは同一トランザクション
func (r *InventoryGormRepository) SetStockWithAdjustment(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Product

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", productID).
			First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repo.ErrNotFound
		}
		if err != nil {
			return err
		}

		delta := newStock - p.Inventory

		res := tx.Model(&model.Product{}).
			Where("id = ?", productID).
			Update("inventory", newStock)
		if res.Error != nil {
			return res.Error
		}

		adjustment := model.InventoryAdjustment{
			ProductID:   productID,
			AdminUserID: adminUserID,
			Delta:       delta,
			Reason:      reason,
		}
		return tx.Create(&adjustment).Error
	})
}
