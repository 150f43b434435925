package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RaceResult struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	RaceID   uint64 `gorm:"not null;index;uniqueIndex:idx_race_driver"`
	DriverID uint64 `gorm:"not null;index;uniqueIndex:idx_race_driver"`

	// Position is the finishing order, 1..N with no ties.
	Position int `gorm:"not null"`

	// Valuation is the percent change stamped by the valuation engine; nil
	// until the race is processed, and nil for drivers without a result row.
	Valuation *decimal.Decimal `gorm:"type:numeric(10,4)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (RaceResult) TableName() string {
	return "race_results"
}
