package usecase

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

// DI
func NewAuditUsecase(auditRepo repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

// AdminListAuditLogs は管理操作の履歴を新しい順で返す。
func (u *AuditUsecase) AdminListAuditLogs(ctx context.Context, adminUserID int64, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	if adminUserID <= 0 {
		return nil, NewUnauthorized()
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, NewInternal("db error")
	}
	return logs, nil
}
