package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

// MarketItem is one catalog entry with its movement from the last processed
// race.
type MarketItem struct {
	Kind    models.AssetKind `json:"kind"`
	ID      uint64           `json:"id"`
	Name    string           `json:"name"`
	Value   int64            `json:"value"`
	Change  int64            `json:"change"`
	Percent decimal.Decimal  `json:"percent"`
	Retired bool             `json:"retired,omitempty"`
}

// MarketView is the full market snapshot served to clients.
type MarketView struct {
	LastProcessedRaceID uint64       `json:"lastProcessedRaceId,omitempty"`
	Drivers             []MarketItem `json:"drivers"`
	Engines             []MarketItem `json:"engines"`
	Chassis             []MarketItem `json:"chassis"`
}

type MarketService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// Snapshot lists every asset with its current value and the change recorded
// by the most recent valuation pass. Before any race is processed all changes
// are zero.
func (s *MarketService) Snapshot(ctx context.Context) (*MarketView, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("market service not configured")
	}

	view := &MarketView{
		Drivers: []MarketItem{},
		Engines: []MarketItem{},
		Chassis: []MarketItem{},
	}

	type movement struct {
		change  int64
		percent decimal.Decimal
	}
	moves := map[models.AssetKind]map[uint64]movement{
		models.AssetKindDriver:  {},
		models.AssetKindEngine:  {},
		models.AssetKindChassis: {},
	}

	last, err := s.Repo.GetLastProcessedRace(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil {
		view.LastProcessedRaceID = last.ID
		history, err := s.Repo.ListAssetValueHistoryForRace(ctx, last.ID)
		if err != nil {
			return nil, err
		}
		for _, row := range history {
			moves[row.AssetKind][row.AssetID] = movement{
				change:  row.ValueAfter - row.ValueBefore,
				percent: row.Percent,
			}
		}
	}

	drivers, err := s.Repo.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drivers {
		m := moves[models.AssetKindDriver][d.ID]
		view.Drivers = append(view.Drivers, MarketItem{
			Kind: models.AssetKindDriver, ID: d.ID, Name: d.Name,
			Value: d.Value, Change: m.change, Percent: m.percent, Retired: d.Retired,
		})
	}

	engines, err := s.Repo.ListEngines(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range engines {
		m := moves[models.AssetKindEngine][e.ID]
		view.Engines = append(view.Engines, MarketItem{
			Kind: models.AssetKindEngine, ID: e.ID, Name: e.Name,
			Value: e.Value, Change: m.change, Percent: m.percent,
		})
	}

	chassis, err := s.Repo.ListChassis(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range chassis {
		m := moves[models.AssetKindChassis][c.ID]
		view.Chassis = append(view.Chassis, MarketItem{
			Kind: models.AssetKindChassis, ID: c.ID, Name: c.Name,
			Value: c.Value, Change: m.change, Percent: m.percent,
		})
	}
	return view, nil
}
