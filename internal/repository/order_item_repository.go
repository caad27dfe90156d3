package repository

import (
	"context"

	"app/internal/domain/model"
)

// 注文明細スナップショットの保存と読み出し。
type OrderItemRepository interface {
	//注文作成時に明細をまとめて保存する
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error

	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
