package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationEntry maps a rounded position difference (baseline minus actual,
// positive = overperformance) to a percent value change. The table covers
// [-20, +20] and is admin-editable; the engine always reads it live.
type ValuationEntry struct {
	Difference    int             `gorm:"primaryKey;autoIncrement:false"`
	PercentChange decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	Description   string          `gorm:"type:varchar(200)"`

	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (ValuationEntry) TableName() string {
	return "valuation_table"
}
