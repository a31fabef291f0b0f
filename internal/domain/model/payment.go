package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment 與Order一對一，amount等於訂單的TotalWithFees
// 狀態由orchestrator(cash)或webhook reconciler(card)推進
type Payment struct {
	PaymentID   uint            `gorm:"primaryKey;autoIncrement"`
	OrderID     string          `gorm:"not null;uniqueIndex;type:varchar(50)"` // 外鍵，關聯到 Order
	UserID      uint            `gorm:"not null;index"`                        // 外鍵，關聯到 User (client)
	Amount      decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Method      string          `gorm:"not null;type:varchar(10)"`
	Status      string          `gorm:"not null;type:varchar(20)"`
	PaymentDate time.Time       `gorm:"not null"`
	BaseModel
}
