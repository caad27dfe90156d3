package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// AdminUserUsecase はユーザーのアーカイブ/復元を持つ。
// 商品と同じ「保管してから消す」順序を守る。
type AdminUserUsecase struct {
	userRepo    repo.UserRepository
	archiveRepo repo.ArchiveRepository
	auditRepo   repo.AuditLogRepository
}

func NewAdminUserUsecase(
	userRepo repo.UserRepository,
	archiveRepo repo.ArchiveRepository,
	auditRepo repo.AuditLogRepository,
) *AdminUserUsecase {
	return &AdminUserUsecase{
		userRepo:    userRepo,
		archiveRepo: archiveRepo,
		auditRepo:   auditRepo,
	}
}

type ArchivedUserView struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	ArchivedAt time.Time `json:"archived_at"`
}

// ArchiveUser はユーザーを保管領域へ移す。
func (u *AdminUserUsecase) ArchiveUser(ctx context.Context, actorUserID int64, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	//先に保管
	if err := u.archiveRepo.CreateUser(ctx, model.ArchivedUser{
		Email:             user.Email,
		Name:              user.Name,
		PasswordHash:      user.PasswordHash,
		Role:              user.Role,
		OriginalCreatedAt: user.CreatedAt,
		ArchivedAt:        time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.userRepo.DeleteByID(ctx, userID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionArchiveUser,
		ResourceType: model.AuditResourceUser,
		ResourceID:   userID,
		BeforeJSON:   fmt.Sprintf(`{"email":%q}`, user.Email),
		AfterJSON:    `{}`,
		CreatedAt:    time.Now(),
	}); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("audit log write failed")
	}

	return nil
}

// RestoreUser は保管領域から戻す。新しいDB IDが振られる。
func (u *AdminUserUsecase) RestoreUser(ctx context.Context, actorUserID int64, archivedID int64) (UserOutput, error) {
	if archivedID <= 0 {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	a, err := u.archiveRepo.FindUserByID(ctx, archivedID)
	if err == repo.ErrNotFound {
		return UserOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user := &model.User{
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		CreatedAt:    a.OriginalCreatedAt,
		UpdatedAt:    time.Now(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.archiveRepo.DeleteUserByID(ctx, archivedID); err != nil {
		logger.Error().Err(err).Int64("archived_id", archivedID).Msg("archived copy cleanup failed")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionRestoreUser,
		ResourceType: model.AuditResourceUser,
		ResourceID:   user.ID,
		BeforeJSON:   `{}`,
		AfterJSON:    fmt.Sprintf(`{"email":%q}`, user.Email),
		CreatedAt:    time.Now(),
	}); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("audit log write failed")
	}

	return UserOutput{ID: user.ID, Email: user.Email, Name: user.Name, Role: string(user.Role)}, nil
}

// アーカイブ済みユーザー一覧
func (u *AdminUserUsecase) ListArchivedUsers(ctx context.Context) ([]ArchivedUserView, error) {
	users, err := u.archiveRepo.ListUsers(ctx)
	if err != nil {
		return []ArchivedUserView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]ArchivedUserView, 0, len(users))
	for _, a := range users {
		views = append(views, ArchivedUserView{
			ID:         a.ID,
			Email:      a.Email,
			Name:       a.Name,
			Role:       string(a.Role),
			ArchivedAt: a.ArchivedAt,
		})
	}
	return views, nil
}
