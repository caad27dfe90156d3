package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateByOwnerID(ctx context.Context, ownerID int64) (model.Cart, error)
	FindByOwnerID(ctx context.Context, ownerID int64) (model.Cart, error)
	Clear(ctx context.Context, cartID int64) error
}
