package models

import (
	"time"

	"gorm.io/datatypes"
)

type Race struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(120);not null"`

	// Round is the 1-based season sequence number. Round 1 is valued against
	// the ghost baseline because no history exists yet.
	Round int       `gorm:"uniqueIndex;not null"`
	Date  time.Time `gorm:"type:timestamptz;not null;index"`

	ResultsSubmitted bool       `gorm:"not null;default:false"`
	ProcessedAt      *time.Time `gorm:"type:timestamptz"`

	// SubmissionJSON keeps a raw copy of the most recently submitted grid for
	// audit; a resubmission overwrites it.
	SubmissionJSON datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Race) TableName() string {
	return "races"
}
