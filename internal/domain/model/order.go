package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 成立後即不可變，金額與品項價格凍結在下單當下
// 狀態只能透過order service的狀態機變更，不可刪除(留存稽核紀錄)
type Order struct {
	OrderID string      `gorm:"primaryKey;type:varchar(50)"`
	UserID  uint        `gorm:"not null;index"` // 外鍵，關聯到 User (client)
	StoreID uint        `gorm:"not null;index"` // 外鍵，關聯到 MedicalStore
	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	ShippingAddress   string `gorm:"type:text"`
	ShippingLatitude  *float64
	ShippingLongitude *float64

	PaymentMethod string `gorm:"not null;type:varchar(10)"`
	Status        string `gorm:"not null;type:varchar(20)"`

	Subtotal      decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	ShippingCost  decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Tax           decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	TotalWithFees decimal.Decimal `gorm:"not null;type:decimal(10,2)"`

	OrderDate time.Time `gorm:"not null"`
	BaseModel
}

type OrderItem struct {
	OrderID   string          `gorm:"primaryKey;type:varchar(50)"` // 外鍵，關聯到 Order
	ProductID string          `gorm:"primaryKey;type:varchar(50)"` // 外鍵，關聯到 Product
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)"` // 下單當下的凍結價格
}

// LineRequest 進入cart/order操作的品項請求，邊界處驗證一次shape
type LineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
