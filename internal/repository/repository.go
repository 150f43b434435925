package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"motorsportstakes/internal/models"
)

// Repository is the single storage abstraction. The production implementation
// lives in repository/gorm; tests use in-memory stubs. Methods with a Tx
// suffix take the transaction handle obtained from InTx (nil falls back to
// the root connection), so a whole valuation pass commits or rolls back as
// one unit.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Users & rosters.
	CreateUser(ctx context.Context, item *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	CreateUserTeam(ctx context.Context, item *models.UserTeam) error
	GetUserTeamByID(ctx context.Context, id uint64) (*models.UserTeam, error)
	ListUserTeamsByUserID(ctx context.Context, userID uint64) ([]models.UserTeam, error)
	SaveUserTeamSelection(ctx context.Context, item *models.UserTeam) error
	ListUserTeamsTx(ctx context.Context, tx *gorm.DB) ([]models.UserTeam, error)
	AddUserTeamCreditsTx(ctx context.Context, tx *gorm.DB, teamID uint64, delta int64) error
	ListStandings(ctx context.Context, tier string, limit int) ([]StandingsRow, error)

	// Asset catalogs.
	CreateDriver(ctx context.Context, item *models.Driver) error
	UpdateDriver(ctx context.Context, item *models.Driver) error
	GetDriverByID(ctx context.Context, id uint64) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	ListDriversTx(ctx context.Context, tx *gorm.DB) ([]models.Driver, error)
	SetDriverValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error
	CreateEngine(ctx context.Context, item *models.Engine) error
	UpdateEngine(ctx context.Context, item *models.Engine) error
	GetEngineByID(ctx context.Context, id uint64) (*models.Engine, error)
	ListEngines(ctx context.Context) ([]models.Engine, error)
	ListEnginesTx(ctx context.Context, tx *gorm.DB) ([]models.Engine, error)
	SetEngineValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error
	CreateChassis(ctx context.Context, item *models.Chassis) error
	UpdateChassis(ctx context.Context, item *models.Chassis) error
	GetChassisByID(ctx context.Context, id uint64) (*models.Chassis, error)
	ListChassis(ctx context.Context) ([]models.Chassis, error)
	ListChassisTx(ctx context.Context, tx *gorm.DB) ([]models.Chassis, error)
	SetChassisValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error

	// Races & results.
	CreateRace(ctx context.Context, item *models.Race) error
	UpdateRace(ctx context.Context, item *models.Race) error
	GetRaceByID(ctx context.Context, id uint64) (*models.Race, error)
	ListRacesOrdered(ctx context.Context) ([]models.Race, error)
	ListRacesOrderedTx(ctx context.Context, tx *gorm.DB) ([]models.Race, error)
	GetLastProcessedRace(ctx context.Context) (*models.Race, error)
	GetNextRaceAfter(ctx context.Context, after time.Time) (*models.Race, error)
	MarkRaceProcessedTx(ctx context.Context, tx *gorm.DB, raceID uint64, submission []byte, processedAt time.Time) error
	ClearRaceProcessedTx(ctx context.Context, tx *gorm.DB, raceID uint64) error
	InsertRaceResultsTx(ctx context.Context, tx *gorm.DB, items []models.RaceResult) error
	ListResultsForRace(ctx context.Context, raceID uint64) ([]models.RaceResult, error)
	ListResultsForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.RaceResult, error)
	ListResultsForRacesTx(ctx context.Context, tx *gorm.DB, raceIDs []uint64) ([]models.RaceResult, error)
	SetResultValuationTx(ctx context.Context, tx *gorm.DB, resultID uint64, percent decimal.Decimal) error
	DeleteResultsForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error

	// Valuation lookup table.
	ListValuationEntries(ctx context.Context) ([]models.ValuationEntry, error)
	ListValuationEntriesTx(ctx context.Context, tx *gorm.DB) ([]models.ValuationEntry, error)
	UpsertValuationEntry(ctx context.Context, item *models.ValuationEntry) error
	CountValuationEntries(ctx context.Context) (int64, error)

	// Append-only histories.
	InsertPerformanceHistoryTx(ctx context.Context, tx *gorm.DB, item *models.PerformanceHistory) error
	DeletePerformanceHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error
	ListPerformanceHistoryForDriver(ctx context.Context, driverID uint64) ([]models.PerformanceHistory, error)
	InsertAssetValueHistoryTx(ctx context.Context, tx *gorm.DB, item *models.AssetValueHistory) error
	ListAssetValueHistoryForRace(ctx context.Context, raceID uint64) ([]models.AssetValueHistory, error)
	ListAssetValueHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.AssetValueHistory, error)
	DeleteAssetValueHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error
	InsertCreditHistoryTx(ctx context.Context, tx *gorm.DB, item *models.CreditHistory) error
	ListCreditHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.CreditHistory, error)
	ListCreditHistoryForTeam(ctx context.Context, teamID uint64) ([]models.CreditHistory, error)
	DeleteCreditHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error

	// Standings snapshots.
	InsertStandingsSnapshot(ctx context.Context, item *models.StandingsSnapshot) error
}

// StandingsRow is one leaderboard line, computed with a join so the handler
// does not fan out per roster.
type StandingsRow struct {
	UserTeamID     uint64
	TeamName       string
	UserName       string
	Tier           string
	InitialCredits int64
	CurrentCredits int64
}
