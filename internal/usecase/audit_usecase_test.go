package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuditUsecase_ListLogs_PassesFilterThrough(t *testing.T) {
	ctx := context.Background()

	auditRepo := new(AuditRepoMock)
	uc := usecase.NewAuditUsecase(auditRepo)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	logs := []model.AuditLog{
		{ID: 2, Action: model.AuditActionUpdateOrderStatus, ResourceType: model.AuditResourceOrder, ResourceID: 10},
		{ID: 1, Action: model.AuditActionUpdateOrderStatus, ResourceType: model.AuditResourceOrder, ResourceID: 10},
	}

	auditRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.Action != nil && *f.Action == model.AuditActionUpdateOrderStatus &&
			f.ResourceType != nil && *f.ResourceType == model.AuditResourceOrder &&
			f.ResourceID != nil && *f.ResourceID == 10 &&
			f.From != nil && f.From.Equal(from) &&
			f.Limit == 20
	})).Return(logs, nil)

	action := "UPDATE_ORDER_STATUS"
	resourceType := "order"
	resourceID := int64(10)
	out, err := uc.ListLogs(ctx, usecase.ListAuditLogsInput{
		Action:       &action,
		ResourceType: &resourceType,
		ResourceID:   &resourceID,
		From:         &from,
		Limit:        20,
	})
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)

	auditRepo.AssertExpectations(t)
}

func TestAuditUsecase_ListLogs_DBError(t *testing.T) {
	auditRepo := new(AuditRepoMock)
	uc := usecase.NewAuditUsecase(auditRepo)

	auditRepo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := uc.ListLogs(context.Background(), usecase.ListAuditLogsInput{})
	assertErrContains(t, err, "db error")
}

func TestAuditUsecase_ListLogs_EmptyIsNotNil(t *testing.T) {
	auditRepo := new(AuditRepoMock)
	uc := usecase.NewAuditUsecase(auditRepo)

	auditRepo.On("List", mock.Anything, mock.Anything).Return(nil, nil)

	out, err := uc.ListLogs(context.Background(), usecase.ListAuditLogsInput{})
	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.Len(t, out, 0)
}
