package model

type MedicalStore struct {
	StoreID     uint   `gorm:"primaryKey"`
	OwnerUserID uint   `gorm:"not null;index"` // 店長(藥師)的 user id
	StoreName   string `gorm:"not null;type:varchar(255)"`
	// 店家座標可能缺漏，缺漏時運費走預設值
	Latitude  *float64
	Longitude *float64
	BaseModel
}
