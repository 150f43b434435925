package valuation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

var ErrRaceNotFound = errors.New("race not found")

// SubmittedResult is one line of a submitted grid.
type SubmittedResult struct {
	DriverID uint64 `json:"driverId"`
	Position int    `json:"position"`
}

// DriverValuationResult reports one driver's outcome of a pass.
type DriverValuationResult struct {
	DriverID uint64          `json:"driverId"`
	Percent  decimal.Decimal `json:"percent"`
	Amount   int64           `json:"amount"`
	NewValue int64           `json:"newValue"`
}

// AssetValuationResult reports a derived engine/chassis outcome.
type AssetValuationResult struct {
	AssetID  uint64          `json:"assetId"`
	Percent  decimal.Decimal `json:"percent"`
	Amount   int64           `json:"amount"`
	NewValue int64           `json:"newValue"`
}

// RosterCreditResult reports one roster's credit delta from a pass.
type RosterCreditResult struct {
	UserTeamID   uint64 `json:"userTeamId"`
	Delta        int64  `json:"delta"`
	BalanceAfter int64  `json:"balanceAfter"`
}

// PassReport is the full outcome of one valuation pass.
type PassReport struct {
	RaceID      uint64                  `json:"raceId"`
	Resubmitted bool                    `json:"resubmitted"`
	Drivers     []DriverValuationResult `json:"drivers"`
	Engines     []AssetValuationResult  `json:"engines"`
	Chassis     []AssetValuationResult  `json:"chassis"`
	Rosters     []RosterCreditResult    `json:"rosters"`
}

// Engine runs valuation passes. One pass recomputes every driver, engine and
// chassis value for a race and fans the resulting deltas out to every roster,
// all inside a single transaction: either everything for the race commits and
// the race is flagged processed, or nothing is.
type Engine struct {
	Repo   repository.Repository
	Calc   Calculator
	Logger *zap.Logger
}

// Apply runs the valuation pass for a race whose grid has just been
// submitted. If the race was already processed the previous pass is reverted
// first (values restored from history, credit deltas subtracted, per-race
// rows deleted), which makes resubmission a strict overwrite: submitting the
// same grid twice leaves every value and balance exactly as one submission
// would have.
func (e *Engine) Apply(ctx context.Context, raceID uint64, submitted []SubmittedResult) (*PassReport, error) {
	if e == nil || e.Repo == nil {
		return nil, errors.New("valuation engine not configured")
	}

	report := &PassReport{RaceID: raceID}
	err := e.Repo.InTx(ctx, func(tx *gorm.DB) error {
		return e.apply(ctx, tx, raceID, submitted, report)
	})
	if err != nil {
		return nil, err
	}
	if e.Logger != nil {
		e.Logger.Info("valuation pass applied",
			zap.Uint64("race_id", raceID),
			zap.Bool("resubmitted", report.Resubmitted),
			zap.Int("drivers", len(report.Drivers)),
			zap.Int("rosters", len(report.Rosters)),
		)
	}
	return report, nil
}

func (e *Engine) apply(ctx context.Context, tx *gorm.DB, raceID uint64, submitted []SubmittedResult, report *PassReport) error {
	races, err := e.Repo.ListRacesOrderedTx(ctx, tx)
	if err != nil {
		return err
	}
	var race *models.Race
	for i := range races {
		if races[i].ID == raceID {
			race = &races[i]
			break
		}
	}
	if race == nil {
		return ErrRaceNotFound
	}

	if race.ResultsSubmitted {
		report.Resubmitted = true
		if err := e.revert(ctx, tx, raceID); err != nil {
			return fmt.Errorf("revert previous pass: %w", err)
		}
	}

	results := make([]models.RaceResult, 0, len(submitted))
	for _, sr := range submitted {
		results = append(results, models.RaceResult{
			RaceID:   raceID,
			DriverID: sr.DriverID,
			Position: sr.Position,
		})
	}
	if err := e.Repo.InsertRaceResultsTx(ctx, tx, results); err != nil {
		return err
	}

	entries, err := e.Repo.ListValuationEntriesTx(ctx, tx)
	if err != nil {
		return err
	}
	table := NewTable(entries, DefaultMinDifference, DefaultMaxDifference)

	index, err := e.loadResultsIndex(ctx, tx, races, raceID, results)
	if err != nil {
		return err
	}

	drivers, err := e.Repo.ListDriversTx(ctx, tx)
	if err != nil {
		return err
	}
	engines, err := e.Repo.ListEnginesTx(ctx, tx)
	if err != nil {
		return err
	}
	chassisList, err := e.Repo.ListChassisTx(ctx, tx)
	if err != nil {
		return err
	}

	resultByDriver := make(map[uint64]*models.RaceResult, len(results))
	for i := range results {
		resultByDriver[results[i].DriverID] = &results[i]
	}

	// Drivers first. Their percentages are what engine/chassis derivation and
	// the roster fan-out consume, so they must all be known before step two.
	driverPct := make(map[uint64]decimal.Decimal, len(drivers))
	driverValue := make(map[uint64]int64, len(drivers))
	stamped := make(map[uint64]decimal.Decimal, len(results))
	for _, d := range drivers {
		pct := e.driverPercent(table, races, raceID, index, d.ID, resultByDriver[d.ID])
		amount := Amount(d.Value, pct)
		newValue := d.Value + amount

		if err := e.Repo.SetDriverValueTx(ctx, tx, d.ID, newValue); err != nil {
			return err
		}
		if res := resultByDriver[d.ID]; res != nil {
			if err := e.Repo.SetResultValuationTx(ctx, tx, res.ID, pct); err != nil {
				return err
			}
			stamped[d.ID] = pct
		}
		position := 0
		if res := resultByDriver[d.ID]; res != nil {
			position = res.Position
		}
		driverID := d.ID
		if err := e.Repo.InsertPerformanceHistoryTx(ctx, tx, &models.PerformanceHistory{
			RaceID:   raceID,
			DriverID: &driverID,
			Position: position,
		}); err != nil {
			return err
		}
		if err := e.Repo.InsertAssetValueHistoryTx(ctx, tx, &models.AssetValueHistory{
			RaceID:      raceID,
			AssetKind:   models.AssetKindDriver,
			AssetID:     d.ID,
			ValueBefore: d.Value,
			ValueAfter:  newValue,
			Percent:     pct,
		}); err != nil {
			return err
		}

		driverPct[d.ID] = pct
		driverValue[d.ID] = newValue
		report.Drivers = append(report.Drivers, DriverValuationResult{
			DriverID: d.ID,
			Percent:  pct,
			Amount:   amount,
			NewValue: newValue,
		})
	}

	// Engine and chassis percentages are means over their currently assigned
	// drivers, read live from the catalog rather than from any stored series.
	chassisByEngine := make(map[uint64][]uint64)
	for _, c := range chassisList {
		if c.EngineID != nil {
			chassisByEngine[*c.EngineID] = append(chassisByEngine[*c.EngineID], c.ID)
		}
	}
	driversByChassis := make(map[uint64][]uint64)
	for _, d := range drivers {
		driversByChassis[d.ChassisID] = append(driversByChassis[d.ChassisID], d.ID)
	}

	enginePct := make(map[uint64]decimal.Decimal, len(engines))
	engineValue := make(map[uint64]int64, len(engines))
	for _, en := range engines {
		var driverIDs []uint64
		for _, chassisID := range chassisByEngine[en.ID] {
			driverIDs = append(driverIDs, driversByChassis[chassisID]...)
		}
		pct := meanPercent(driverPct, driverIDs)
		amount := Amount(en.Value, pct)
		newValue := en.Value + amount

		if err := e.Repo.SetEngineValueTx(ctx, tx, en.ID, newValue); err != nil {
			return err
		}
		engineID := en.ID
		if err := e.Repo.InsertPerformanceHistoryTx(ctx, tx, &models.PerformanceHistory{
			RaceID:   raceID,
			EngineID: &engineID,
			Position: 0,
		}); err != nil {
			return err
		}
		if err := e.Repo.InsertAssetValueHistoryTx(ctx, tx, &models.AssetValueHistory{
			RaceID:      raceID,
			AssetKind:   models.AssetKindEngine,
			AssetID:     en.ID,
			ValueBefore: en.Value,
			ValueAfter:  newValue,
			Percent:     pct,
		}); err != nil {
			return err
		}

		enginePct[en.ID] = pct
		engineValue[en.ID] = newValue
		report.Engines = append(report.Engines, AssetValuationResult{
			AssetID:  en.ID,
			Percent:  pct,
			Amount:   amount,
			NewValue: newValue,
		})
	}

	chassisPct := make(map[uint64]decimal.Decimal, len(chassisList))
	chassisValue := make(map[uint64]int64, len(chassisList))
	for _, c := range chassisList {
		pct := meanPercent(driverPct, driversByChassis[c.ID])
		amount := Amount(c.Value, pct)
		newValue := c.Value + amount

		if err := e.Repo.SetChassisValueTx(ctx, tx, c.ID, newValue); err != nil {
			return err
		}
		chassisID := c.ID
		if err := e.Repo.InsertPerformanceHistoryTx(ctx, tx, &models.PerformanceHistory{
			RaceID:    raceID,
			ChassisID: &chassisID,
			Position:  0,
		}); err != nil {
			return err
		}
		if err := e.Repo.InsertAssetValueHistoryTx(ctx, tx, &models.AssetValueHistory{
			RaceID:      raceID,
			AssetKind:   models.AssetKindChassis,
			AssetID:     c.ID,
			ValueBefore: c.Value,
			ValueAfter:  newValue,
			Percent:     pct,
		}); err != nil {
			return err
		}

		chassisPct[c.ID] = pct
		chassisValue[c.ID] = newValue
		report.Chassis = append(report.Chassis, AssetValuationResult{
			AssetID:  c.ID,
			Percent:  pct,
			Amount:   amount,
			NewValue: newValue,
		})
	}

	// Fan out to every roster, including ones holding none of this race's
	// assets: those record a zero delta. Driver contributions use the stamped
	// per-result percent against the already-updated value; engine and
	// chassis contributions use their freshly derived percents the same way.
	teams, err := e.Repo.ListUserTeamsTx(ctx, tx)
	if err != nil {
		return err
	}
	for _, team := range teams {
		var delta int64
		for _, driverID := range team.DriverIDs() {
			pct, ok := stamped[driverID]
			if !ok {
				continue
			}
			delta += Amount(driverValue[driverID], pct)
		}
		if team.EngineID != nil {
			if value, ok := engineValue[*team.EngineID]; ok {
				delta += Amount(value, enginePct[*team.EngineID])
			}
		}
		if team.ChassisID != nil {
			if value, ok := chassisValue[*team.ChassisID]; ok {
				delta += Amount(value, chassisPct[*team.ChassisID])
			}
		}

		if err := e.Repo.AddUserTeamCreditsTx(ctx, tx, team.ID, delta); err != nil {
			return err
		}
		balance := team.CurrentCredits + delta
		if err := e.Repo.InsertCreditHistoryTx(ctx, tx, &models.CreditHistory{
			UserTeamID:   team.ID,
			RaceID:       raceID,
			Delta:        delta,
			BalanceAfter: balance,
		}); err != nil {
			return err
		}
		report.Rosters = append(report.Rosters, RosterCreditResult{
			UserTeamID:   team.ID,
			Delta:        delta,
			BalanceAfter: balance,
		})
	}

	submission, err := json.Marshal(submitted)
	if err != nil {
		return err
	}
	return e.Repo.MarkRaceProcessedTx(ctx, tx, raceID, submission, time.Now().UTC())
}

// driverPercent is the per-driver valuation: baseline vs. actual position,
// translated through the lookup table. A driver without a result in this race
// and a race that cannot be located both soft-fail to 0%.
func (e *Engine) driverPercent(table *Table, races []models.Race, raceID uint64, index ResultsIndex, driverID uint64, result *models.RaceResult) decimal.Decimal {
	if result == nil {
		return decimal.Zero
	}
	baseline, ok := e.Calc.DriverBaseline(races, raceID, index, driverID)
	if !ok {
		return decimal.Zero
	}
	return table.Percent(Difference(baseline, result.Position))
}

// revert undoes a previously applied pass for the race: asset values are
// restored to their recorded before-values, roster credit deltas are
// subtracted back out, and the race's derived rows are deleted.
func (e *Engine) revert(ctx context.Context, tx *gorm.DB, raceID uint64) error {
	history, err := e.Repo.ListAssetValueHistoryForRaceTx(ctx, tx, raceID)
	if err != nil {
		return err
	}
	for _, row := range history {
		switch row.AssetKind {
		case models.AssetKindDriver:
			err = e.Repo.SetDriverValueTx(ctx, tx, row.AssetID, row.ValueBefore)
		case models.AssetKindEngine:
			err = e.Repo.SetEngineValueTx(ctx, tx, row.AssetID, row.ValueBefore)
		case models.AssetKindChassis:
			err = e.Repo.SetChassisValueTx(ctx, tx, row.AssetID, row.ValueBefore)
		}
		if err != nil {
			return err
		}
	}

	credits, err := e.Repo.ListCreditHistoryForRaceTx(ctx, tx, raceID)
	if err != nil {
		return err
	}
	for _, row := range credits {
		if err := e.Repo.AddUserTeamCreditsTx(ctx, tx, row.UserTeamID, -row.Delta); err != nil {
			return err
		}
	}

	if err := e.Repo.DeleteResultsForRaceTx(ctx, tx, raceID); err != nil {
		return err
	}
	if err := e.Repo.DeletePerformanceHistoryForRaceTx(ctx, tx, raceID); err != nil {
		return err
	}
	if err := e.Repo.DeleteAssetValueHistoryForRaceTx(ctx, tx, raceID); err != nil {
		return err
	}
	if err := e.Repo.DeleteCreditHistoryForRaceTx(ctx, tx, raceID); err != nil {
		return err
	}
	return e.Repo.ClearRaceProcessedTx(ctx, tx, raceID)
}

// loadResultsIndex loads the finishing positions the baseline window needs,
// plus the just-submitted grid for the target race itself.
func (e *Engine) loadResultsIndex(ctx context.Context, tx *gorm.DB, races []models.Race, raceID uint64, current []models.RaceResult) (ResultsIndex, error) {
	index := make(ResultsIndex)
	windowIDs := e.Calc.WindowRaceIDs(races, raceID)
	if len(windowIDs) > 0 {
		prior, err := e.Repo.ListResultsForRacesTx(ctx, tx, windowIDs)
		if err != nil {
			return nil, err
		}
		for _, r := range prior {
			if index[r.RaceID] == nil {
				index[r.RaceID] = make(map[uint64]int)
			}
			index[r.RaceID][r.DriverID] = r.Position
		}
	}
	index[raceID] = make(map[uint64]int, len(current))
	for _, r := range current {
		index[raceID][r.DriverID] = r.Position
	}
	return index, nil
}

func meanPercent(pcts map[uint64]decimal.Decimal, ids []uint64) decimal.Decimal {
	if len(ids) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, id := range ids {
		sum = sum.Add(pcts[id])
	}
	return sum.Div(decimal.NewFromInt(int64(len(ids)))).Round(0)
}
