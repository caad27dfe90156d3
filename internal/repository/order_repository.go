package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//新しい順
	ListAll(ctx context.Context) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	//注文ステータスと支払いステータスをまとめて更新（updated_atも進める）
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, payment model.PaymentStatus) error
}
