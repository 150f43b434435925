package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"motorsportstakes/internal/auth"
	"motorsportstakes/internal/models"
	"motorsportstakes/internal/repository"
)

// UserService handles registration and login. Registration creates the user's
// two fixed rosters alongside the account.
type UserService struct {
	Repo   repository.Repository
	Tokens *auth.Manager
	Logger *zap.Logger
}

func (s *UserService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	if s == nil || s.Repo == nil {
		return nil, "", errors.New("user service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, "", ErrInvalidCredentials
	}

	existing, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	teams := []*models.UserTeam{
		{
			UserID:         user.ID,
			Name:           user.DisplayName + " Premium",
			Tier:           models.TierPremium,
			InitialCredits: models.PremiumInitialCredits,
			CurrentCredits: models.PremiumInitialCredits,
		},
		{
			UserID:         user.ID,
			Name:           user.DisplayName + " Challenger",
			Tier:           models.TierChallenger,
			InitialCredits: models.ChallengerInitialCredits,
			CurrentCredits: models.ChallengerInitialCredits,
		},
	}
	for _, team := range teams {
		if err := s.Repo.CreateUserTeam(ctx, team); err != nil {
			return nil, "", err
		}
	}

	token, err := s.Tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, "", err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", zap.Uint64("user_id", user.ID))
	}
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if s == nil || s.Repo == nil {
		return nil, "", errors.New("user service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
