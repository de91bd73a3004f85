package repository

import "context"

// 在庫の永続化と履歴保存をまとめた約束。
type InventoryRepository interface {
	SetStockWithAdjustment(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error
}
