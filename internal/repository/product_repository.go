package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//起動時のカウンターヒーリング用（商品ゼロ件なら0）
	MaxNumericID(ctx context.Context) (int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error

	//物理削除。アーカイブ済みであることは呼び出し側が保証する。
	DeleteByID(ctx context.Context, id int64) error
}
