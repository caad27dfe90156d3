package repository

import (
	"app/internal/domain/model"
	"context"
)

// 削除済みレコードの保管と復元の窓口。
type ArchiveRepository interface {
	CreateProduct(ctx context.Context, p model.ArchivedProduct) error
	ListProducts(ctx context.Context) ([]model.ArchivedProduct, error)
	FindProductByID(ctx context.Context, archivedID int64) (model.ArchivedProduct, error)
	DeleteProductByID(ctx context.Context, archivedID int64) error

	CreateUser(ctx context.Context, u model.ArchivedUser) error
	ListUsers(ctx context.Context) ([]model.ArchivedUser, error)
	FindUserByID(ctx context.Context, archivedID int64) (model.ArchivedUser, error)
	DeleteUserByID(ctx context.Context, archivedID int64) error
}
