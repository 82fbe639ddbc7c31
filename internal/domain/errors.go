package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrCorruptRecord   = errors.New("corrupt record")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrMissionNotFound = errors.New("mission not found")
	ErrInsufficientXP  = errors.New("insufficient xp")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnsupportedTier = errors.New("unsupported tier")
	ErrProviderFailure = errors.New("provider failure")
)
