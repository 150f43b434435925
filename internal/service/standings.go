package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

const defaultStandingsLimit = 100

type StandingsService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// Leaderboard returns the tier's rosters ordered by current credits.
func (s *StandingsService) Leaderboard(ctx context.Context, tier string, limit int) ([]repository.StandingsRow, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("standings service not configured")
	}
	if tier != models.TierPremium && tier != models.TierChallenger {
		return nil, ErrInvalidTier
	}
	if limit <= 0 {
		limit = defaultStandingsLimit
	}
	return s.Repo.ListStandings(ctx, tier, limit)
}

// Snapshot persists the current leaderboard of both tiers. Run from cron;
// read-only against the roster table so it cannot collide with a valuation
// pass.
func (s *StandingsService) Snapshot(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return errors.New("standings service not configured")
	}
	takenAt := time.Now().UTC()
	for _, tier := range []string{models.TierPremium, models.TierChallenger} {
		rows, err := s.Repo.ListStandings(ctx, tier, defaultStandingsLimit)
		if err != nil {
			return err
		}
		rankings, err := json.Marshal(rows)
		if err != nil {
			return err
		}
		if err := s.Repo.InsertStandingsSnapshot(ctx, &models.StandingsSnapshot{
			Tier:     tier,
			TakenAt:  takenAt,
			Rankings: rankings,
		}); err != nil {
			return err
		}
	}
	if s.Logger != nil {
		s.Logger.Info("standings snapshot taken", zap.Time("taken_at", takenAt))
	}
	return nil
}
