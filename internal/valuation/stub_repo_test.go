package valuation

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It implements the full interface but only the subset the valuation engine
// touches does real work.
type stubRepo struct {
	races        []models.Race
	drivers      map[uint64]*models.Driver
	engines      map[uint64]*models.Engine
	chassis      map[uint64]*models.Chassis
	teams        map[uint64]*models.UserTeam
	entries      []models.ValuationEntry
	results      map[uint64][]*models.RaceResult
	perf         []models.PerformanceHistory
	values       map[uint64][]models.AssetValueHistory
	credits      map[uint64][]models.CreditHistory
	nextResultID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		drivers: map[uint64]*models.Driver{},
		engines: map[uint64]*models.Engine{},
		chassis: map[uint64]*models.Chassis{},
		teams:   map[uint64]*models.UserTeam{},
		results: map[uint64][]*models.RaceResult{},
		values:  map[uint64][]models.AssetValueHistory{},
		credits: map[uint64][]models.CreditHistory{},
	}
}

// defaultEntries mirrors the seeded lookup table: percent = difference * 2.5
// rounded to an integer.
func defaultEntries() []models.ValuationEntry {
	entries := make([]models.ValuationEntry, 0, 41)
	for d := -20; d <= 20; d++ {
		pct := int64(math.Round(float64(d) * 2.5))
		entries = append(entries, models.ValuationEntry{
			Difference:    d,
			PercentChange: decimal.NewFromInt(pct),
		})
	}
	return entries
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

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error { return nil }
func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}
func (s *stubRepo) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	return nil, nil
}
func (s *stubRepo) CreateUserTeam(ctx context.Context, item *models.UserTeam) error {
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
		t.CurrentCredits = item.CurrentCredits
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
	return nil, nil
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
	return s.ListDriversTx(ctx, nil)
}
func (s *stubRepo) ListDriversTx(ctx context.Context, tx *gorm.DB) ([]models.Driver, error) {
	out := make([]models.Driver, 0, len(s.drivers))
	for _, id := range sortedIDs(s.drivers) {
		out = append(out, *s.drivers[id])
	}
	return out, nil
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
	return s.ListEnginesTx(ctx, nil)
}
func (s *stubRepo) ListEnginesTx(ctx context.Context, tx *gorm.DB) ([]models.Engine, error) {
	out := make([]models.Engine, 0, len(s.engines))
	for _, id := range sortedIDs(s.engines) {
		out = append(out, *s.engines[id])
	}
	return out, nil
}
func (s *stubRepo) SetEngineValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error {
	if e, ok := s.engines[id]; ok {
		e.Value = value
	}
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
	return s.ListChassisTx(ctx, nil)
}
func (s *stubRepo) ListChassisTx(ctx context.Context, tx *gorm.DB) ([]models.Chassis, error) {
	out := make([]models.Chassis, 0, len(s.chassis))
	for _, id := range sortedIDs(s.chassis) {
		out = append(out, *s.chassis[id])
	}
	return out, nil
}
func (s *stubRepo) SetChassisValueTx(ctx context.Context, tx *gorm.DB, id uint64, value int64) error {
	if c, ok := s.chassis[id]; ok {
		c.Value = value
	}
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
	return s.ListRacesOrderedTx(ctx, nil)
}
func (s *stubRepo) ListRacesOrderedTx(ctx context.Context, tx *gorm.DB) ([]models.Race, error) {
	out := make([]models.Race, len(s.races))
	copy(out, s.races)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
func (s *stubRepo) GetLastProcessedRace(ctx context.Context) (*models.Race, error) {
	return nil, nil
}
func (s *stubRepo) GetNextRaceAfter(ctx context.Context, after time.Time) (*models.Race, error) {
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
	for i := range s.races {
		if s.races[i].ID == raceID {
			s.races[i].ResultsSubmitted = false
			s.races[i].ProcessedAt = nil
		}
	}
	return nil
}
func (s *stubRepo) InsertRaceResultsTx(ctx context.Context, tx *gorm.DB, items []models.RaceResult) error {
	for i := range items {
		s.nextResultID++
		items[i].ID = s.nextResultID
		copied := items[i]
		s.results[copied.RaceID] = append(s.results[copied.RaceID], &copied)
	}
	return nil
}
func (s *stubRepo) ListResultsForRace(ctx context.Context, raceID uint64) ([]models.RaceResult, error) {
	return s.ListResultsForRaceTx(ctx, nil, raceID)
}
func (s *stubRepo) ListResultsForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.RaceResult, error) {
	var out []models.RaceResult
	for _, r := range s.results[raceID] {
		out = append(out, *r)
	}
	return out, nil
}
func (s *stubRepo) ListResultsForRacesTx(ctx context.Context, tx *gorm.DB, raceIDs []uint64) ([]models.RaceResult, error) {
	var out []models.RaceResult
	for _, id := range raceIDs {
		for _, r := range s.results[id] {
			out = append(out, *r)
		}
	}
	return out, nil
}
func (s *stubRepo) SetResultValuationTx(ctx context.Context, tx *gorm.DB, resultID uint64, percent decimal.Decimal) error {
	for _, rows := range s.results {
		for _, r := range rows {
			if r.ID == resultID {
				pct := percent
				r.Valuation = &pct
			}
		}
	}
	return nil
}
func (s *stubRepo) DeleteResultsForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	delete(s.results, raceID)
	return nil
}

func (s *stubRepo) ListValuationEntries(ctx context.Context) ([]models.ValuationEntry, error) {
	return s.ListValuationEntriesTx(ctx, nil)
}
func (s *stubRepo) ListValuationEntriesTx(ctx context.Context, tx *gorm.DB) ([]models.ValuationEntry, error) {
	return s.entries, nil
}
func (s *stubRepo) UpsertValuationEntry(ctx context.Context, item *models.ValuationEntry) error {
	return nil
}
func (s *stubRepo) CountValuationEntries(ctx context.Context) (int64, error) {
	return int64(len(s.entries)), nil
}

func (s *stubRepo) InsertPerformanceHistoryTx(ctx context.Context, tx *gorm.DB, item *models.PerformanceHistory) error {
	s.perf = append(s.perf, *item)
	return nil
}
func (s *stubRepo) DeletePerformanceHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	kept := s.perf[:0]
	for _, row := range s.perf {
		if row.RaceID != raceID {
			kept = append(kept, row)
		}
	}
	s.perf = kept
	return nil
}
func (s *stubRepo) ListPerformanceHistoryForDriver(ctx context.Context, driverID uint64) ([]models.PerformanceHistory, error) {
	var out []models.PerformanceHistory
	for _, row := range s.perf {
		if row.DriverID != nil && *row.DriverID == driverID {
			out = append(out, row)
		}
	}
	return out, nil
}
func (s *stubRepo) InsertAssetValueHistoryTx(ctx context.Context, tx *gorm.DB, item *models.AssetValueHistory) error {
	s.values[item.RaceID] = append(s.values[item.RaceID], *item)
	return nil
}
func (s *stubRepo) ListAssetValueHistoryForRace(ctx context.Context, raceID uint64) ([]models.AssetValueHistory, error) {
	return s.ListAssetValueHistoryForRaceTx(ctx, nil, raceID)
}
func (s *stubRepo) ListAssetValueHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.AssetValueHistory, error) {
	return s.values[raceID], nil
}
func (s *stubRepo) DeleteAssetValueHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	delete(s.values, raceID)
	return nil
}
func (s *stubRepo) InsertCreditHistoryTx(ctx context.Context, tx *gorm.DB, item *models.CreditHistory) error {
	s.credits[item.RaceID] = append(s.credits[item.RaceID], *item)
	return nil
}
func (s *stubRepo) ListCreditHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) ([]models.CreditHistory, error) {
	return s.credits[raceID], nil
}
func (s *stubRepo) ListCreditHistoryForTeam(ctx context.Context, teamID uint64) ([]models.CreditHistory, error) {
	var out []models.CreditHistory
	for _, rows := range s.credits {
		for _, row := range rows {
			if row.UserTeamID == teamID {
				out = append(out, row)
			}
		}
	}
	return out, nil
}
func (s *stubRepo) DeleteCreditHistoryForRaceTx(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	delete(s.credits, raceID)
	return nil
}

func (s *stubRepo) InsertStandingsSnapshot(ctx context.Context, item *models.StandingsSnapshot) error {
	return nil
}
