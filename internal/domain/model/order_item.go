package model

import "time"

// 注文明細（購入時点のスナップショット）。
// ProductNumericIDは在庫戻しで使う安定参照。古い明細は0のことがあり、その場合は商品名で引く。
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	ProductNumericID int64 `gorm:"not null;index;default:0" json:"product_numeric_id"`

	NameSnapshot      string `gorm:"type:varchar(255);not null" json:"name_snapshot"`
	MRPSnapshot       int64  `gorm:"not null" json:"mrp_snapshot"`
	UnitPriceSnapshot int64  `gorm:"not null" json:"unit_price_snapshot"`
	Quantity          int64  `gorm:"not null" json:"quantity"`
	ImageSnapshot     []byte `gorm:"type:bytea" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
