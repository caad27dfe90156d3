package model

import "time"

// 商品。NumericIDはカウンターで採番するSKU番号（DBのIDとは別物）。
// DiscountedPriceはMRPとDiscountPercentからサーバー側で必ず再計算する。
type Product struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//SKU番号（採番後は振り直さない）
	NumericID int64 `gorm:"not null;uniqueIndex" json:"numeric_id"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	//定価
	MRP int64 `gorm:"not null" json:"mrp"`

	//割引率（0〜100）
	DiscountPercent int64 `gorm:"not null;default:0" json:"discount_percent"`

	//割引後価格（導出値）
	DiscountedPrice int64 `gorm:"not null" json:"discounted_price"`

	Category string `gorm:"type:varchar(100)" json:"category"`

	//画像はエンコード済みバイト列のまま保存。表示時にdata URIへ変換する。
	Image []byte `gorm:"type:bytea" json:"-"`

	Stock     int64     `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
