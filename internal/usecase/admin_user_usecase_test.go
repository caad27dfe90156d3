package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAdminUserUsecase_ArchiveUser_CopyBeforeDelete(t *testing.T) {
	ctx := context.Background()

	users := new(UserRepoMock)
	archive := new(ArchiveRepoMock)
	audit := new(AuditRepoMock)
	uc := usecase.NewAdminUserUsecase(users, archive, audit)

	var calls []string

	users.On("FindByID", mock.Anything, int64(5)).
		Return(&model.User{ID: 5, Email: "gone@example.com", Role: model.RoleUser}, nil)
	archive.On("CreateUser", mock.Anything, mock.MatchedBy(func(a model.ArchivedUser) bool {
		return a.Email == "gone@example.com"
	})).Run(func(args mock.Arguments) {
		calls = append(calls, "archive")
	}).Return(nil)
	users.On("DeleteByID", mock.Anything, int64(5)).Run(func(args mock.Arguments) {
		calls = append(calls, "delete")
	}).Return(nil)
	audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	err := uc.ArchiveUser(ctx, 1, 5)
	assert.NoError(t, err)
	assert.Equal(t, []string{"archive", "delete"}, calls)
}

func TestAdminUserUsecase_ArchiveUser_CopyFails_UserKept(t *testing.T) {
	users := new(UserRepoMock)
	archive := new(ArchiveRepoMock)
	uc := usecase.NewAdminUserUsecase(users, archive, new(AuditRepoMock))

	users.On("FindByID", mock.Anything, int64(5)).Return(&model.User{ID: 5}, nil)
	archive.On("CreateUser", mock.Anything, mock.AnythingOfType("model.ArchivedUser")).
		Return(errors.New("db down"))

	err := uc.ArchiveUser(context.Background(), 1, 5)
	assert.Error(t, err)

	users.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestAdminUserUsecase_RestoreUser_RoundTrip(t *testing.T) {
	ctx := context.Background()

	users := new(UserRepoMock)
	archive := new(ArchiveRepoMock)
	audit := new(AuditRepoMock)
	uc := usecase.NewAdminUserUsecase(users, archive, audit)

	archive.On("FindUserByID", mock.Anything, int64(3)).
		Return(model.ArchivedUser{ID: 3, Email: "back@example.com", Role: model.RoleUser}, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "back@example.com"
	})).Run(func(args mock.Arguments) {
		// DBが新しいIDを振る
		args.Get(1).(*model.User).ID = 77
	}).Return(nil)
	archive.On("DeleteUserByID", mock.Anything, int64(3)).Return(nil)
	audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	out, err := uc.RestoreUser(ctx, 1, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)
	assert.Equal(t, "back@example.com", out.Email)

	archive.AssertExpectations(t)
}

func TestAdminUserUsecase_RestoreUser_MissingArchive_NotFound(t *testing.T) {
	archive := new(ArchiveRepoMock)
	uc := usecase.NewAdminUserUsecase(new(UserRepoMock), archive, new(AuditRepoMock))

	archive.On("FindUserByID", mock.Anything, int64(404)).Return(model.ArchivedUser{}, repo.ErrNotFound)

	_, err := uc.RestoreUser(context.Background(), 1, 404)
	assertErrContains(t, err, "not found")
}
