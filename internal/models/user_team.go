package models

import "time"

const (
	TierPremium    = "premium"
	TierChallenger = "challenger"

	PremiumInitialCredits    = 1000
	ChallengerInitialCredits = 700
)

// UserTeam is a user's fantasy roster: up to two drivers, one engine and one
// chassis plus a credit balance. Every user owns one premium and one
// challenger roster, created at registration and never deleted.
type UserTeam struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;index"`
	Name   string `gorm:"type:varchar(100);not null"`
	Tier   string `gorm:"type:varchar(20);not null;index"`

	InitialCredits int64 `gorm:"not null"`
	CurrentCredits int64 `gorm:"not null"`

	Driver1ID *uint64 `gorm:"index"`
	Driver2ID *uint64 `gorm:"index"`
	EngineID  *uint64 `gorm:"index"`
	ChassisID *uint64 `gorm:"index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (UserTeam) TableName() string {
	return "user_teams"
}

// DriverIDs returns the selected driver ids, skipping empty slots.
func (t *UserTeam) DriverIDs() []uint64 {
	ids := make([]uint64, 0, 2)
	if t.Driver1ID != nil {
		ids = append(ids, *t.Driver1ID)
	}
	if t.Driver2ID != nil {
		ids = append(ids, *t.Driver2ID)
	}
	return ids
}
