package model

import "time"

// 削除済み商品の保管テーブル。
// 復元に必要な全フィールドを保持する（元のDB IDだけは引き継がない）。
type ArchivedProduct struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	NumericID       int64  `gorm:"not null;index" json:"numeric_id"`
	Name            string `gorm:"type:varchar(255);not null" json:"name"`
	Description     string `gorm:"type:text" json:"description"`
	MRP             int64  `gorm:"not null" json:"mrp"`
	DiscountPercent int64  `gorm:"not null;default:0" json:"discount_percent"`
	DiscountedPrice int64  `gorm:"not null" json:"discounted_price"`
	Category        string `gorm:"type:varchar(100)" json:"category"`
	Image           []byte `gorm:"type:bytea" json:"-"`
	Stock           int64  `gorm:"not null;default:0" json:"stock"`

	//元のProductの作成時刻
	OriginalCreatedAt time.Time `gorm:"not null" json:"original_created_at"`

	ArchivedAt time.Time `gorm:"not null;autoCreateTime" json:"archived_at"`
}

// 削除済みユーザーの保管テーブル。
type ArchivedUser struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Email        string `gorm:"not null;index" json:"email"`
	Name         string `gorm:"type:varchar(255)" json:"name"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null" json:"role"`

	OriginalCreatedAt time.Time `gorm:"not null" json:"original_created_at"`

	ArchivedAt time.Time `gorm:"not null;autoCreateTime" json:"archived_at"`
}
