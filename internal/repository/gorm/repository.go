package gormrepository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// conn resolves the handle for Tx-suffixed methods: inside InTx callers pass
// the transaction, elsewhere nil falls back to the root connection.
func (s *Store) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- users & rosters --------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateUserTeam(ctx context.Context, item *models.UserTeam) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserTeamByID(ctx context.Context, id uint64) (*models.UserTeam, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.UserTeam
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListUserTeamsByUserID(ctx context.Context, userID uint64) ([]models.UserTeam, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.UserTeam
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("tier asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SaveUserTeamSelection(ctx context.Context, item *models.UserTeam) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.UserTeam{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"driver1_id":      item.Driver1ID,
			"driver2_id":      item.Driver2ID,
			"engine_id":       item.EngineID,
			"chassis_id":      item.ChassisID,
			"current_credits": item.CurrentCredits,
		}).Error
}

func (s *Store) ListUserTeamsTx(ctx context.Context, tx *gorm.DB) ([]models.UserTeam, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.UserTeam
	if err := s.conn(tx).WithContext(ctx).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) AddUserTeamCreditsTx(ctx context.Context, tx *gorm.DB, teamID uint64, delta int64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Model(&models.UserTeam{}).
		Where("id = ?", teamID).
		UpdateColumn("current_credits", gorm.Expr("current_credits + ?", delta)).Error
}

func (s *Store) ListStandings(ctx context.Context, tier string, limit int) ([]repository.StandingsRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := s.db.WithContext(ctx).
		Table("user_teams AS t").
		Select(`
			t.id AS user_team_id,
			t.name AS team_name,
			u.display_name AS user_name,
			t.tier AS tier,
			t.initial_credits AS initial_credits,
			t.current_credits AS current_credits
		`).
		Joins("JOIN users AS u ON u.id = t.user_id")
	if tier != "" {
		query = query.Where("t.tier = ?", tier)
	}
	var rows []repository.StandingsRow
	if err := query.Order("t.current_credits desc").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --- asset catalogs ---------------------------------------------------------

func (s *Store) CreateDriver(ctx context.Context, item *models.Driver) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateDriver(ctx context.Context, item *models.Driver) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Driver{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":       item.Name,
			"number":     item.Number,
			"chassis_id": item.ChassisID,
			"value":      item.Value,
			"retired":    item.Retired,
		}).Error
}

func (s *Store) GetDriverByID(ctx context.Context, id uint64) (*models.Driver, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Driver
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	return s.ListDriversTx(ctx, nil)
}

func (s *Store) ListDriversTx(ctx context.Context, tx *gorm.DB) ([]models.Driver, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Driver
	if err := s.conn(tx).WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetDriverValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Model(&models.Driver{}).
		Where("id = ?", id).
		UpdateColumn("value", value).Error
}

func (s *Store) CreateEngine(ctx context.Context, item *models.Engine) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateEngine(ctx context.Context, item *models.Engine) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Engine{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":  item.Name,
			"value": item.Value,
		}).Error
}

func (s *Store) GetEngineByID(ctx context.Context, id uint64) (*models.Engine, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Engine
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListEngines(ctx context.Context) ([]models.Engine, error) {
	return s.ListEnginesTx(ctx, nil)
}

func (s *Store) ListEnginesTx(ctx context.Context, tx *gorm.DB) ([]models.Engine, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Engine
	if err := s.conn(tx).WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetEngineValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Model(&models.Engine{}).
		Where("id = ?", id).
		UpdateColumn("value", value).Error
}

func (s *Store) CreateChassis(ctx context.Context, item *models.Chassis) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateChassis(ctx context.Context, item *models.Chassis) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Chassis{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":      item.Name,
			"engine_id": item.EngineID,
			"value":     item.Value,
		}).Error
}

func (s *Store) GetChassisByID(ctx context.Context, id uint64) (*models.Chassis, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Chassis
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListChassis(ctx context.Context) ([]models.Chassis, error) {
	return s.ListChassisTx(ctx, nil)
}

func (s *Store) ListChassisTx(ctx context.Context, tx *gorm.DB) ([]models.Chassis, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Chassis
	if err := s.conn(tx).WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetChassisValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Model(&models.Chassis{}).
		Where("id = ?", id).
		UpdateColumn("value", value).Error
}

// --- races & results --------------------------------------------------------

func (s *Store) CreateRace(ctx context.Context, item *models.Race) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateRace(ctx context.Context, item *models.Race) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Race{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":  item.Name,
			"round": item.Round,
			"date":  item.Date,
		}).Error
}

func (s *Store) GetRaceByID(ctx context.Context, id uint64) (*models.Race, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Race
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListRacesOrdered(ctx context.Context) ([]models.Race, error) {
	return s.ListRacesOrderedTx(ctx, nil)
}

func (s *Store) ListRacesOrderedTx(ctx context.Context, tx *gorm.DB) ([]models.Race, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Race
	if err := s.conn(tx).WithContext(ctx).
		Order("date asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetLastProcessedRace(ctx context.Context) (*models.Race, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Race
	err := s.db.WithContext(ctx).
		Where("results_submitted = ?", true).
		Order("date desc, id desc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetNextRaceAfter(ctx context.Context, after time.Time) (*models.Race, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Race
	err := s.db.WithContext(ctx).
		Where("date > ?", after).
		Where("results_submitted = ?", false).
		Order("date asc, id asc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) MarkRaceProcessedTx(ctx context.Context, tx *gorm.DB, raceID uint64, submission []byte, processedAt time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Model(&models.Race{}).
		Where("id = ?", raceID).
		Updates(map[string]any{
			"results_submitted": true,
			"processed_at":      processedAt,
			"submission_json":   submission,
		}).Error
}

func (s *Store) ClearRaceProcessedTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Model(&models.Race{}).
		Where("id = ?", raceID).
		Updates(map[string]any{
			"results_submitted": false,
			"processed_at":      nil,
		}).Error
}

func (s *Store) InsertRaceResultsTx(ctx context.Context, tx *gorm.DB, items []models.RaceResult) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Create(&items).Error
}

func (s *Store) ListResultsForRace(ctx context.Context, raceID uint64) ([]models.RaceResult, error) {
	return s.ListResultsForRaceTx(ctx, nil, raceID)
}

func (s *Store) ListResultsForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.RaceResult, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.RaceResult
	if err := s.conn(tx).WithContext(ctx).
		Where("race_id = ?", raceID).
		Order("position asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListResultsForRacesTx(ctx context.Context, tx *gorm.DB, raceIDs []uint64) ([]models.RaceResult, error) {
	if s == nil || s.db == nil || len(raceIDs) == 0 {
		return nil, nil
	}
	var items []models.RaceResult
	if err := s.conn(tx).WithContext(ctx).
		Where("race_id IN ?", raceIDs).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetResultValuationTx(ctx context.Context, tx *gorm.DB, resultID uint64, percent decimal.Decimal) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Model(&models.RaceResult{}).
		Where("id = ?", resultID).
		UpdateColumn("valuation", percent).Error
}

func (s *Store) DeleteResultsForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).
		Where("race_id = ?", raceID).
		Delete(&models.RaceResult{}).Error
}

// --- valuation table --------------------------------------------------------

func (s *Store) ListValuationEntries(ctx context.Context) ([]models.ValuationEntry, error) {
	return s.ListValuationEntriesTx(ctx, nil)
}

func (s *Store) ListValuationEntriesTx(ctx context.Context, tx *gorm.DB) ([]models.ValuationEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.ValuationEntry
	if err := s.conn(tx).WithContext(ctx).
		Order("difference asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpsertValuationEntry(ctx context.Context, item *models.ValuationEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "difference"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"percent_change",
			"description",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) CountValuationEntries(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ValuationEntry{}).Count(&n).Error
	return n, err
}

// --- histories --------------------------------------------------------------

func (s *Store) InsertPerformanceHistoryTx(ctx context.Context, tx *gorm.DB, item *models.PerformanceHistory) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Create(item).Error
}

func (s *Store) DeletePerformanceHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).
		Where("race_id = ?", raceID).
		Delete(&models.PerformanceHistory{}).Error
}

func (s *Store) ListPerformanceHistoryForDriver(ctx context.Context, driverID uint64) ([]models.PerformanceHistory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.PerformanceHistory
	if err := s.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("race_id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) InsertAssetValueHistoryTx(ctx context.Context, tx *gorm.DB, item *models.AssetValueHistory) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Create(item).Error
}

func (s *Store) ListAssetValueHistoryForRace(ctx context.Context, raceID uint64) ([]models.AssetValueHistory, error) {
	return s.ListAssetValueHistoryForRaceTx(ctx, nil, raceID)
}

func (s *Store) ListAssetValueHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.AssetValueHistory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.AssetValueHistory
	if err := s.conn(tx).WithContext(ctx).
		Where("race_id = ?", raceID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteAssetValueHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).
		Where("race_id = ?", raceID).
		Delete(&models.AssetValueHistory{}).Error
}

func (s *Store) InsertCreditHistoryTx(ctx context.Context, tx *gorm.DB, item *models.CreditHistory) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Create(item).Error
}

func (s *Store) ListCreditHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.CreditHistory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.CreditHistory
	if err := s.conn(tx).WithContext(ctx).
		Where("race_id = ?", raceID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListCreditHistoryForTeam(ctx context.Context, teamID uint64) ([]models.CreditHistory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.CreditHistory
	if err := s.db.WithContext(ctx).
		Where("user_team_id = ?", teamID).
		Order("race_id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteCreditHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).
		Where("race_id = ?", raceID).
		Delete(&models.CreditHistory{}).Error
}

// --- standings snapshots ----------------------------------------------------

func (s *Store) InsertStandingsSnapshot(ctx context.Context, item *models.StandingsSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}
