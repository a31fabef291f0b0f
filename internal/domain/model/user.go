package model

type User struct {
	UserID    uint   `gorm:"primaryKey"`
	UserName  string `gorm:"not null;type:varchar(50)"`
	UserEmail string `gorm:"unique;not null;type:varchar(100)"`
	Role      string `gorm:"not null;type:varchar(20)"`
	// 客戶預設收件座標，用於運費距離計算
	DefaultLatitude  *float64
	DefaultLongitude *float64
	Address          string `gorm:"type:varchar(255)"`
	BaseModel
}

// Actor 代表這次請求的操作者，由上游auth gateway驗證後帶入
type Actor struct {
	UserID  uint
	Role    string
	StoreID uint // pharmacist 才有值
}
