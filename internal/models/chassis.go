package models

import "time"

// Chassis is the constructor entity ("team" in the racing sense), distinct
// from a user's fantasy roster.
type Chassis struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement"`
	Name     string  `gorm:"type:varchar(100);not null"`
	EngineID *uint64 `gorm:"index"`
	Value    int64   `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Chassis) TableName() string {
	return "chassis"
}
