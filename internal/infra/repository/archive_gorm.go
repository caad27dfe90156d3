package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ArchiveGormRepository struct {
	db *gorm.DB
}

// DI
func NewArchiveGormRepository(db *gorm.DB) *ArchiveGormRepository {
	return &ArchiveGormRepository{db: db}
}

func (r *ArchiveGormRepository) CreateProduct(ctx context.Context, p model.ArchivedProduct) error {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return err
	}
	return nil
}

// アーカイブ済み商品を新しい順で返す。
func (r *ArchiveGormRepository) ListProducts(ctx context.Context) ([]model.ArchivedProduct, error) {
	var products []model.ArchivedProduct
	err := r.db.WithContext(ctx).
		Order("archived_at desc").Order("id desc").
		Find(&products).Error
	if err != nil {
		return []model.ArchivedProduct{}, err
	}
	return products, nil
}

func (r *ArchiveGormRepository) FindProductByID(ctx context.Context, archivedID int64) (model.ArchivedProduct, error) {
	var p model.ArchivedProduct
	err := r.db.WithContext(ctx).First(&p, archivedID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ArchivedProduct{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ArchivedProduct{}, err
	}
	return p, nil
}

func (r *ArchiveGormRepository) DeleteProductByID(ctx context.Context, archivedID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ArchivedProduct{}, archivedID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ArchiveGormRepository) CreateUser(ctx context.Context, u model.ArchivedUser) error {
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return err
	}
	return nil
}

func (r *ArchiveGormRepository) ListUsers(ctx context.Context) ([]model.ArchivedUser, error) {
	var users []model.ArchivedUser
	err := r.db.WithContext(ctx).
		Order("archived_at desc").Order("id desc").
		Find(&users).Error
	if err != nil {
		return []model.ArchivedUser{}, err
	}
	return users, nil
}

func (r *ArchiveGormRepository) FindUserByID(ctx context.Context, archivedID int64) (model.ArchivedUser, error) {
	var u model.ArchivedUser
	err := r.db.WithContext(ctx).First(&u, archivedID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ArchivedUser{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ArchivedUser{}, err
	}
	return u, nil
}

func (r *ArchiveGormRepository) DeleteUserByID(ctx context.Context, archivedID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ArchivedUser{}, archivedID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
