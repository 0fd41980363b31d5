package domain

import "errors"

// Lookup errors
var (
	ErrChampionNotFound      = errors.New("champion not found")
	ErrRoleNotFound          = errors.New("role not found")
	ErrItemNotFound          = errors.New("item not found")
	ErrRuneNotFound          = errors.New("rune not found")
	ErrSummonerSpellNotFound = errors.New("summoner spell not found")
	ErrMatchupNotFound       = errors.New("matchup not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrSessionNotFound       = errors.New("session not found")
)

// Matchup errors
var (
	ErrMatchupExists      = errors.New("a matchup for these champions and role already exists")
	ErrInvalidDifficulty  = errors.New("difficulty must be one of Easy, Medium, Hard, Extreme")
	ErrInvalidTipCategory = errors.New("invalid tip category")
	ErrInvalidPriority    = errors.New("priority must be between 1 and 10")
)
