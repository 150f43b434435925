package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"motorsportstakes/internal/repository"
	"motorsportstakes/internal/valuation"
)

// ResultsService validates a submitted grid and hands it to the valuation
// engine. Submissions are serialized by a process-wide mutex on top of the
// engine's transaction, so two passes can never interleave.
type ResultsService struct {
	Repo   repository.Repository
	Engine *valuation.Engine
	Logger *zap.Logger

	mu sync.Mutex
}

// Submit runs a valuation pass for the race. With resubmit false a race that
// was already processed is rejected; with resubmit true the previous pass is
// overwritten.
func (s *ResultsService) Submit(ctx context.Context, raceID uint64, grid []valuation.SubmittedResult, resubmit bool) (*valuation.PassReport, error) {
	if s == nil || s.Repo == nil || s.Engine == nil {
		return nil, errors.New("results service not configured")
	}
	if err := s.validateGrid(ctx, grid); err != nil {
		return nil, err
	}

	race, err := s.Repo.GetRaceByID(ctx, raceID)
	if err != nil {
		return nil, err
	}
	if race == nil {
		return nil, valuation.ErrRaceNotFound
	}
	if race.ResultsSubmitted && !resubmit {
		return nil, ErrAlreadySubmitted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.Engine.Apply(ctx, raceID, grid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("valuation pass failed", zap.Uint64("race_id", raceID), zap.Error(err))
		}
		return nil, err
	}
	return report, nil
}

// validateGrid enforces the service-edge rules: at least one line, no driver
// listed twice, every driver known, and positions forming 1..n with no gaps.
func (s *ResultsService) validateGrid(ctx context.Context, grid []valuation.SubmittedResult) error {
	if len(grid) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidGrid)
	}

	drivers, err := s.Repo.ListDrivers(ctx)
	if err != nil {
		return err
	}
	known := make(map[uint64]bool, len(drivers))
	for _, d := range drivers {
		known[d.ID] = true
	}

	seenDriver := make(map[uint64]bool, len(grid))
	seenPosition := make(map[int]bool, len(grid))
	for _, line := range grid {
		if !known[line.DriverID] {
			return fmt.Errorf("%w: driver %d", ErrUnknownDriver, line.DriverID)
		}
		if seenDriver[line.DriverID] {
			return fmt.Errorf("%w: driver %d listed twice", ErrInvalidGrid, line.DriverID)
		}
		seenDriver[line.DriverID] = true
		if line.Position < 1 || line.Position > len(grid) {
			return fmt.Errorf("%w: position %d out of range 1..%d", ErrInvalidGrid, line.Position, len(grid))
		}
		if seenPosition[line.Position] {
			return fmt.Errorf("%w: position %d assigned twice", ErrInvalidGrid, line.Position)
		}
		seenPosition[line.Position] = true
	}
	return nil
}
