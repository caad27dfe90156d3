package model

import "time"

//在庫変動の履歴（管理者調整・キャンセル時の在庫戻し）

type InventoryAdjustment struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//SKU番号で記録する（商品の入れ替えに耐える）
	ProductNumericID int64 `gorm:"not null;index" json:"product_numeric_id"`

	//0はシステム起因（キャンセル戻しなど）
	ActorUserID int64     `gorm:"not null;index" json:"actor_user_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
