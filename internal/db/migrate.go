package db

import (
	"motorsportstakes/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.UserTeam{},
		&models.Engine{},
		&models.Chassis{},
		&models.Driver{},
		&models.Race{},
		&models.RaceResult{},
		&models.PerformanceHistory{},
		&models.ValuationEntry{},
		&models.AssetValueHistory{},
		&models.CreditHistory{},
		&models.StandingsSnapshot{},
	)
}
