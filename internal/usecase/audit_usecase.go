package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// AuditUsecase は管理者操作ログの照会窓口。
// 書き込みは各ユースケースが行い、ここは読むだけ。
type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

// DI
func NewAuditUsecase(auditRepo repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

// 絞り込み条件。nilのフィールドは条件にしない。
type ListAuditLogsInput struct {
	ActorUserID  *int64
	Action       *string
	ResourceType *string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// ListLogs は監査ログを新しい順で返す。
func (u *AuditUsecase) ListLogs(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	filter := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		From:        in.From,
		To:          in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}

	if in.Action != nil {
		a := model.AuditAction(*in.Action)
		filter.Action = &a
	}
	if in.ResourceType != nil {
		rt := model.AuditResourceType(*in.ResourceType)
		filter.ResourceType = &rt
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
