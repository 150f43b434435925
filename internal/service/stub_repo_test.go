package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

// stubRepo is the in-memory repository.Repository used by the service tests.
// Transaction-scoped methods the services never call are no-ops.
type stubRepo struct {
	users   map[uint64]*models.User
	teams   map[uint64]*models.UserTeam
	drivers map[uint64]*models.Driver
	engines map[uint64]*models.Engine
	chassis map[uint64]*models.Chassis
	races   []models.Race
	entries map[int]models.ValuationEntry

	nextUserID uint64
	nextTeamID uint64

	snapshots []models.StandingsSnapshot
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:   map[uint64]*models.User{},
		teams:   map[uint64]*models.UserTeam{},
		drivers: map[uint64]*models.Driver{},
		engines: map[uint64]*models.Engine{},
		chassis: map[uint64]*models.Chassis{},
		entries: map[int]models.ValuationEntry{},
	}
}

func sortedIDs[T any](m map[uint64]*T) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error {
	s.nextUserID++
	item.ID = s.nextUserID
	s.users[item.ID] = item
	return nil
}
func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, id := range sortedIDs(s.users) {
		if s.users[id].Email == email {
			copied := *s.users[id]
			return &copied, nil
		}
	}
	return nil, nil
}
func (s *stubRepo) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}
func (s *stubRepo) CreateUserTeam(ctx context.Context, item *models.UserTeam) error {
	s.nextTeamID++
	item.ID = s.nextTeamID
	s.teams[item.ID] = item
	return nil
}
func (s *stubRepo) GetUserTeamByID(ctx context.Context, id uint64) (*models.UserTeam, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}
func (s *stubRepo) ListUserTeamsByUserID(ctx context.Context, userID uint64) ([]models.UserTeam, error) {
	var out []models.UserTeam
	for _, id := range sortedIDs(s.teams) {
		if s.teams[id].UserID == userID {
			out = append(out, *s.teams[id])
		}
	}
	return out, nil
}
func (s *stubRepo) SaveUserTeamSelection(ctx context.Context, item *models.UserTeam) error {
	if t, ok := s.teams[item.ID]; ok {
		t.Driver1ID = item.Driver1ID
		t.Driver2ID = item.Driver2ID
		t.EngineID = item.EngineID
		t.ChassisID = item.ChassisID
	}
	return nil
}
func (s *stubRepo) ListUserTeamsTx(ctx context.Context, tx *gorm.DB) ([]models.UserTeam, error) {
	out := make([]models.UserTeam, 0, len(s.teams))
	for _, id := range sortedIDs(s.teams) {
		out = append(out, *s.teams[id])
	}
	return out, nil
}
func (s *stubRepo) AddUserTeamCreditsTx(ctx context.Context, tx *gorm.DB, teamID uint64, delta int64) error {
	if t, ok := s.teams[teamID]; ok {
		t.CurrentCredits += delta
	}
	return nil
}
func (s *stubRepo) ListStandings(ctx context.Context, tier string, limit int) ([]repository.StandingsRow, error) {
	var rows []repository.StandingsRow
	for _, id := range sortedIDs(s.teams) {
		t := s.teams[id]
		if t.Tier != tier {
			continue
		}
		rows = append(rows, repository.StandingsRow{
			UserTeamID:     t.ID,
			TeamName:       t.Name,
			Tier:           t.Tier,
			InitialCredits: t.InitialCredits,
			CurrentCredits: t.CurrentCredits,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CurrentCredits > rows[j].CurrentCredits })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubRepo) CreateDriver(ctx context.Context, item *models.Driver) error {
	s.drivers[item.ID] = item
	return nil
}
func (s *stubRepo) UpdateDriver(ctx context.Context, item *models.Driver) error { return nil }
func (s *stubRepo) GetDriverByID(ctx context.Context, id uint64) (*models.Driver, error) {
	d, ok := s.drivers[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}
func (s *stubRepo) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	out := make([]models.Driver, 0, len(s.drivers))
	for _, id := range sortedIDs(s.drivers) {
		out = append(out, *s.drivers[id])
	}
	return out, nil
}
func (s *stubRepo) ListDriversTx(ctx context.Context, tx *gorm.DB) ([]models.Driver, error) {
	return s.ListDrivers(ctx)
}
func (s *stubRepo) SetDriverValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error {
	if d, ok := s.drivers[id]; ok {
		d.Value = value
	}
	return nil
}

func (s *stubRepo) CreateEngine(ctx context.Context, item *models.Engine) error {
	s.engines[item.ID] = item
	return nil
}
func (s *stubRepo) UpdateEngine(ctx context.Context, item *models.Engine) error { return nil }
func (s *stubRepo) GetEngineByID(ctx context.Context, id uint64) (*models.Engine, error) {
	e, ok := s.engines[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}
func (s *stubRepo) ListEngines(ctx context.Context) ([]models.Engine, error) {
	out := make([]models.Engine, 0, len(s.engines))
	for _, id := range sortedIDs(s.engines) {
		out = append(out, *s.engines[id])
	}
	return out, nil
}
func (s *stubRepo) ListEnginesTx(ctx context.Context, tx *gorm.DB) ([]models.Engine, error) {
	return s.ListEngines(ctx)
}
func (s *stubRepo) SetEngineValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error {
	return nil
}

func (s *stubRepo) CreateChassis(ctx context.Context, item *models.Chassis) error {
	s.chassis[item.ID] = item
	return nil
}
func (s *stubRepo) UpdateChassis(ctx context.Context, item *models.Chassis) error { return nil }
func (s *stubRepo) GetChassisByID(ctx context.Context, id uint64) (*models.Chassis, error) {
	c, ok := s.chassis[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}
func (s *stubRepo) ListChassis(ctx context.Context) ([]models.Chassis, error) {
	out := make([]models.Chassis, 0, len(s.chassis))
	for _, id := range sortedIDs(s.chassis) {
		out = append(out, *s.chassis[id])
	}
	return out, nil
}
func (s *stubRepo) ListChassisTx(ctx context.Context, tx *gorm.DB) ([]models.Chassis, error) {
	return s.ListChassis(ctx)
}
func (s *stubRepo) SetChassisValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error {
	return nil
}

func (s *stubRepo) CreateRace(ctx context.Context, item *models.Race) error {
	s.races = append(s.races, *item)
	return nil
}
func (s *stubRepo) UpdateRace(ctx context.Context, item *models.Race) error { return nil }
func (s *stubRepo) GetRaceByID(ctx context.Context, id uint64) (*models.Race, error) {
	for i := range s.races {
		if s.races[i].ID == id {
			copied := s.races[i]
			return &copied, nil
		}
	}
	return nil, nil
}
func (s *stubRepo) ListRacesOrdered(ctx context.Context) ([]models.Race, error) {
	out := make([]models.Race, len(s.races))
	copy(out, s.races)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
func (s *stubRepo) ListRacesOrderedTx(ctx context.Context, tx *gorm.DB) ([]models.Race, error) {
	return s.ListRacesOrdered(ctx)
}
func (s *stubRepo) GetLastProcessedRace(ctx context.Context) (*models.Race, error) {
	races, _ := s.ListRacesOrdered(ctx)
	for i := len(races) - 1; i >= 0; i-- {
		if races[i].ResultsSubmitted {
			copied := races[i]
			return &copied, nil
		}
	}
	return nil, nil
}
func (s *stubRepo) GetNextRaceAfter(ctx context.Context, after time.Time) (*models.Race, error) {
	races, _ := s.ListRacesOrdered(ctx)
	for i := range races {
		if races[i].Date.After(after) {
			copied := races[i]
			return &copied, nil
		}
	}
	return nil, nil
}
func (s *stubRepo) MarkRaceProcessedTx(ctx context.Context, tx *gorm.DB, raceID uint64, submission []byte, processedAt time.Time) error {
	for i := range s.races {
		if s.races[i].ID == raceID {
			s.races[i].ResultsSubmitted = true
			s.races[i].ProcessedAt = &processedAt
			s.races[i].SubmissionJSON = submission
		}
	}
	return nil
}
func (s *stubRepo) ClearRaceProcessedTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	return nil
}
func (s *stubRepo) InsertRaceResultsTx(ctx context.Context, tx *gorm.DB, items []models.RaceResult) error {
	return nil
}
func (s *stubRepo) ListResultsForRace(ctx context.Context, raceID uint64) ([]models.RaceResult, error) {
	return nil, nil
}
func (s *stubRepo) ListResultsForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.RaceResult, error) {
	return nil, nil
}
func (s *stubRepo) ListResultsForRacesTx(ctx context.Context, tx *gorm.DB, raceIDs []uint64) ([]models.RaceResult, error) {
	return nil, nil
}
func (s *stubRepo) SetResultValuationTx(ctx context.Context, tx *gorm.DB, resultID uint64, percent decimal.Decimal) error {
	return nil
}
func (s *stubRepo) DeleteResultsForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	return nil
}

func (s *stubRepo) ListValuationEntries(ctx context.Context) ([]models.ValuationEntry, error) {
	out := make([]models.ValuationEntry, 0, len(s.entries))
	for d := -25; d <= 25; d++ {
		if e, ok := s.entries[d]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
func (s *stubRepo) ListValuationEntriesTx(ctx context.Context, tx *gorm.DB) ([]models.ValuationEntry, error) {
	return s.ListValuationEntries(ctx)
}
func (s *stubRepo) UpsertValuationEntry(ctx context.Context, item *models.ValuationEntry) error {
	s.entries[item.Difference] = *item
	return nil
}
func (s *stubRepo) CountValuationEntries(ctx context.Context) (int64, error) {
	return int64(len(s.entries)), nil
}

func (s *stubRepo) InsertPerformanceHistoryTx(ctx context.Context, tx *gorm.DB, item *models.PerformanceHistory) error {
	return nil
}
func (s *stubRepo) DeletePerformanceHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	return nil
}
func (s *stubRepo) ListPerformanceHistoryForDriver(ctx context.Context, driverID uint64) ([]models.PerformanceHistory, error) {
	return nil, nil
}
func (s *stubRepo) InsertAssetValueHistoryTx(ctx context.Context, tx *gorm.DB, item *models.AssetValueHistory) error {
	return nil
}
func (s *stubRepo) ListAssetValueHistoryForRace(ctx context.Context, raceID uint64) ([]models.AssetValueHistory, error) {
	return nil, nil
}
func (s *stubRepo) ListAssetValueHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.AssetValueHistory, error) {
	return nil, nil
}
func (s *stubRepo) DeleteAssetValueHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	return nil
}
func (s *stubRepo) InsertCreditHistoryTx(ctx context.Context, tx *gorm.DB, item *models.CreditHistory) error {
	return nil
}
func (s *stubRepo) ListCreditHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.CreditHistory, error) {
	return nil, nil
}
func (s *stubRepo) ListCreditHistoryForTeam(ctx context.Context, teamID uint64) ([]models.CreditHistory, error) {
	return nil, nil
}
func (s *stubRepo) DeleteCreditHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	return nil
}

func (s *stubRepo) InsertStandingsSnapshot(ctx context.Context, item *models.StandingsSnapshot) error {
	s.snapshots = append(s.snapshots, *item)
	return nil
}
