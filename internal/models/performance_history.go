package models

import "time"

// PerformanceHistory is the append-only (entity, race, position) log. Exactly
// one of DriverID/EngineID/ChassisID is set per row. Engine and chassis rows
// carry a placeholder position of 0: their averages are always derived live
// from their current drivers, never from a stored position series.
type PerformanceHistory struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	RaceID uint64 `gorm:"not null;index"`

	DriverID  *uint64 `gorm:"index"`
	EngineID  *uint64 `gorm:"index"`
	ChassisID *uint64 `gorm:"index"`

	Position int `gorm:"not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (PerformanceHistory) TableName() string {
	return "performance_history"
}
