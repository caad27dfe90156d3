package repository

import (
	"app/internal/domain/model"
	"context"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）。SKU番号で引く
	IncreaseStockByNumericID(ctx context.Context, numericID int64, qty int64) error

	// 在庫戻しのフォールバック。SKU番号を持たない古い明細は商品名で引く
	IncreaseStockByName(ctx context.Context, name string, qty int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
