package models

import "time"

// CreditHistory is the per-roster credit ledger, one row per roster per
// valuation pass. Deltas are subtracted back out when a race is resubmitted.
type CreditHistory struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	UserTeamID uint64 `gorm:"not null;index;uniqueIndex:idx_team_race"`
	RaceID     uint64 `gorm:"not null;index;uniqueIndex:idx_team_race"`

	Delta        int64 `gorm:"not null"`
	BalanceAfter int64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (CreditHistory) TableName() string {
	return "credit_history"
}
