package model

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// 終端ステータスからは遷移できない
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	PaymentMethodGateway        PaymentMethod = "GATEWAY"
	PaymentMethodCashOnDelivery PaymentMethod = "COD"
	PaymentMethodUPI            PaymentMethod = "UPI"
)

type DeliveryMethod string

const (
	DeliveryMethodStandard DeliveryMethod = "STANDARD"
	DeliveryMethodExpress  DeliveryMethod = "EXPRESS"
)

// 配送先
type ShippingInfo struct {
	FullName     string `gorm:"type:varchar(255);not null" json:"full_name"`
	AddressLine1 string `gorm:"type:varchar(255);not null" json:"address_line1"`
	City         string `gorm:"type:varchar(255);not null" json:"city"`
	PostalCode   string `gorm:"type:varchar(20);not null" json:"postal_code"`
}

// 決済ゲートウェイからの結果（任意）
type PaymentResult struct {
	ID         string `gorm:"type:varchar(255)" json:"id"`
	Status     string `gorm:"type:varchar(50)" json:"status"`
	UpdateTime string `gorm:"type:varchar(100)" json:"update_time"`
	Email      string `gorm:"type:varchar(255)" json:"email"`
}

// 注文。明細は注文時点のスナップショットで、以後の商品変更の影響を受けない。
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//ゲスト注文は0
	UserID int64 `gorm:"index" json:"user_id"`

	//ゲストでも必須
	OwnerEmail string `gorm:"type:varchar(255);not null" json:"owner_email"`
	OwnerName  string `gorm:"type:varchar(255)" json:"owner_name"`

	Shipping ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_info"`

	DeliveryMethod DeliveryMethod `gorm:"type:varchar(20);not null" json:"delivery_method"`
	PaymentMethod  PaymentMethod  `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus  PaymentStatus  `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	PaymentResult  PaymentResult  `gorm:"embedded;embeddedPrefix:payment_result_" json:"payment_result"`

	Subtotal      int64 `gorm:"not null" json:"subtotal"`
	DeliveryPrice int64 `gorm:"not null" json:"delivery_price"`

	//作成時に subtotal + delivery_price と一致させる
	TotalPrice int64 `gorm:"not null" json:"total_price"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"order_status"`

	//人間向けの注文番号
	OrderReference string `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_reference"`

	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
