package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidGrid      = errors.New("invalid results grid")
	ErrUnknownDriver    = errors.New("unknown driver in results grid")
	ErrAlreadySubmitted = errors.New("results already submitted for race")

	ErrRosterNotFound      = errors.New("roster not found")
	ErrNotRosterOwner      = errors.New("roster belongs to another user")
	ErrUnknownAsset        = errors.New("selected asset does not exist")
	ErrDriverRetired       = errors.New("driver is retired")
	ErrDuplicateDriver     = errors.New("driver already selected on one of your rosters")
	ErrInsufficientCredits = errors.New("insufficient credits for selection")
	ErrEditsLocked         = errors.New("roster edits locked until race results are processed")

	ErrInvalidTier = errors.New("unknown roster tier")
)
