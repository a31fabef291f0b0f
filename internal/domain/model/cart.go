package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart 每個客戶最多一台購物車(UserID unique)
// 所有items必須屬於同一間店(StoreID)
type Cart struct {
	CartID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uint            `gorm:"not null;uniqueIndex"` // 外鍵，關聯到 User
	StoreID      uint            `gorm:"not null"`             // 目前購物車綁定的店家，空車為0
	Items        []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Tax          decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(10,2)"`
	BaseModel
}

type CartItem struct {
	CartID    uuid.UUID       `gorm:"primaryKey;type:uuid"` // 外鍵，關聯到 Cart
	ProductID string          `gorm:"primaryKey;type:varchar(50)"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)"` // 加入/合併當下的目錄價
	Position  int             `gorm:"not null"`                    // 顯示順序
}

// Subtotal Σ(price × quantity)
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// IsEmpty 空車判斷
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
