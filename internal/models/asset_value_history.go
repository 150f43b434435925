package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetValueHistory records an asset's value around each valuation pass.
// ValueAfter feeds "change since last race" displays; ValueBefore is what a
// resubmission restores before reapplying, which is what makes reprocessing a
// race idempotent.
type AssetValueHistory struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	RaceID    uint64    `gorm:"not null;index;uniqueIndex:idx_race_asset"`
	AssetKind AssetKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_race_asset"`
	AssetID   uint64    `gorm:"not null;index;uniqueIndex:idx_race_asset"`

	ValueBefore int64           `gorm:"not null"`
	ValueAfter  int64           `gorm:"not null"`
	Percent     decimal.Decimal `gorm:"type:numeric(10,4);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (AssetValueHistory) TableName() string {
	return "asset_value_history"
}
