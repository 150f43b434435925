package models

import "time"

type Driver struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(100);not null"`
	Number    int    `gorm:"uniqueIndex;not null"`
	ChassisID uint64 `gorm:"not null;index"`

	// Value is in credits and is mutated only by the valuation engine.
	Value   int64 `gorm:"not null;default:0"`
	Retired bool  `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Driver) TableName() string {
	return "drivers"
}
