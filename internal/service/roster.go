package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

// RosterSelection is a full replacement of a roster's asset slots; nil means
// the slot is emptied.
type RosterSelection struct {
	Driver1ID *uint64
	Driver2ID *uint64
	EngineID  *uint64
	ChassisID *uint64
}

// RosterService owns roster reads and edits. The valuation engine is the only
// writer of roster credits; this service only rearranges the asset slots.
type RosterService struct {
	Repo   repository.Repository
	Logger *zap.Logger

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *RosterService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *RosterService) ListOwn(ctx context.Context, userID uint64) ([]models.UserTeam, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("roster service not configured")
	}
	return s.Repo.ListUserTeamsByUserID(ctx, userID)
}

// Update replaces the roster's selection after running the edit rules: the
// roster must belong to the caller, edits are locked while an unprocessed
// race's start time has passed, a driver may appear on at most one of the
// user's rosters, retired drivers are rejected, and the summed value of the
// selected assets must fit the roster's current credits.
func (s *RosterService) Update(ctx context.Context, userID, teamID uint64, sel RosterSelection) (*models.UserTeam, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("roster service not configured")
	}

	team, err := s.Repo.GetUserTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrRosterNotFound
	}
	if team.UserID != userID {
		return nil, ErrNotRosterOwner
	}

	locked, err := s.editsLocked(ctx)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, ErrEditsLocked
	}

	if sel.Driver1ID != nil && sel.Driver2ID != nil && *sel.Driver1ID == *sel.Driver2ID {
		return nil, ErrDuplicateDriver
	}
	if err := s.checkDriverUniqueness(ctx, userID, teamID, sel); err != nil {
		return nil, err
	}

	var cost int64
	for _, id := range []*uint64{sel.Driver1ID, sel.Driver2ID} {
		if id == nil {
			continue
		}
		driver, err := s.Repo.GetDriverByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if driver == nil {
			return nil, ErrUnknownAsset
		}
		if driver.Retired {
			return nil, ErrDriverRetired
		}
		cost += driver.Value
	}
	if sel.EngineID != nil {
		engine, err := s.Repo.GetEngineByID(ctx, *sel.EngineID)
		if err != nil {
			return nil, err
		}
		if engine == nil {
			return nil, ErrUnknownAsset
		}
		cost += engine.Value
	}
	if sel.ChassisID != nil {
		chassis, err := s.Repo.GetChassisByID(ctx, *sel.ChassisID)
		if err != nil {
			return nil, err
		}
		if chassis == nil {
			return nil, ErrUnknownAsset
		}
		cost += chassis.Value
	}
	if cost > team.CurrentCredits {
		return nil, ErrInsufficientCredits
	}

	team.Driver1ID = sel.Driver1ID
	team.Driver2ID = sel.Driver2ID
	team.EngineID = sel.EngineID
	team.ChassisID = sel.ChassisID
	if err := s.Repo.SaveUserTeamSelection(ctx, team); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("roster updated", zap.Uint64("team_id", teamID), zap.Int64("cost", cost))
	}
	return team, nil
}

// editsLocked reports whether the earliest race still awaiting results has
// already started. Between race start and results processing the market is
// frozen.
func (s *RosterService) editsLocked(ctx context.Context) (bool, error) {
	races, err := s.Repo.ListRacesOrdered(ctx)
	if err != nil {
		return false, err
	}
	for _, race := range races {
		if race.ResultsSubmitted {
			continue
		}
		return race.Date.Before(s.now()), nil
	}
	return false, nil
}

func (s *RosterService) checkDriverUniqueness(ctx context.Context, userID, teamID uint64, sel RosterSelection) error {
	teams, err := s.Repo.ListUserTeamsByUserID(ctx, userID)
	if err != nil {
		return err
	}
	selected := make(map[uint64]bool, 2)
	if sel.Driver1ID != nil {
		selected[*sel.Driver1ID] = true
	}
	if sel.Driver2ID != nil {
		selected[*sel.Driver2ID] = true
	}
	for _, other := range teams {
		if other.ID == teamID {
			continue
		}
		for _, id := range other.DriverIDs() {
			if selected[id] {
				return ErrDuplicateDriver
			}
		}
	}
	return nil
}
