package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID string          `gorm:"primaryKey;type:varchar(50)"`
	StoreID   uint            `gorm:"not null;index"` // 外鍵，關聯到 MedicalStore
	Name      string          `gorm:"not null;type:varchar(255)"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Stock     uint            `gorm:"not null;type:int"`
	BaseModel // CreatedAt, UpdatedAt, DeletedAt
}
