package repository

import "context"

// 同一トランザクションに載ったrepo一式。
// チェックアウトとステータス遷移がこの束で在庫・注文・カートをまとめて触る。
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Inventory() InventoryRepository
	Products() ProductRepository
}

// begin/commit/rollbackをusecaseから隠す。fnがerrorを返したらロールバック。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
