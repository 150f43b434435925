package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
	"motorsportstakes/internal/valuation"
)

// ValuationTableService exposes the admin-editable lookup table. Edits take
// effect on the next valuation pass only.
type ValuationTableService struct {
	Repo repository.Repository
}

func (s *ValuationTableService) List(ctx context.Context) ([]models.ValuationEntry, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("valuation table service not configured")
	}
	return s.Repo.ListValuationEntries(ctx)
}

func (s *ValuationTableService) Upsert(ctx context.Context, entries []models.ValuationEntry) error {
	if s == nil || s.Repo == nil {
		return errors.New("valuation table service not configured")
	}
	for i := range entries {
		if entries[i].Difference < valuation.DefaultMinDifference || entries[i].Difference > valuation.DefaultMaxDifference {
			return fmt.Errorf("difference %d outside [%d, %d]",
				entries[i].Difference, valuation.DefaultMinDifference, valuation.DefaultMaxDifference)
		}
		if err := s.Repo.UpsertValuationEntry(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// SeedDefaults fills an empty table with the stock curve of 2.5% per place,
// rounded to whole percents. A table that already has rows is left alone.
func (s *ValuationTableService) SeedDefaults(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return errors.New("valuation table service not configured")
	}
	count, err := s.Repo.CountValuationEntries(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for d := valuation.DefaultMinDifference; d <= valuation.DefaultMaxDifference; d++ {
		pct := int64(math.Round(float64(d) * 2.5))
		if err := s.Repo.UpsertValuationEntry(ctx, &models.ValuationEntry{
			Difference:    d,
			PercentChange: decimal.NewFromInt(pct),
		}); err != nil {
			return err
		}
	}
	return nil
}
