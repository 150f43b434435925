package models

import (
	"time"

	"gorm.io/datatypes"
)

// StandingsSnapshot is a periodic leaderboard capture taken by the cron job.
type StandingsSnapshot struct {
	ID       uint64         `gorm:"primaryKey;autoIncrement"`
	Tier     string         `gorm:"type:varchar(20);not null;index"`
	TakenAt  time.Time      `gorm:"type:timestamptz;not null;index"`
	Rankings datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (StandingsSnapshot) TableName() string {
	return "standings_snapshots"
}
