package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoPlayers      = errors.New("game has no players")

	// Commander damage can only come from an opponent
	ErrSelfCommanderDamage = errors.New("player cannot take commander damage from themselves")

	// Game errors
	ErrGameNotFound       = errors.New("game not found")
	ErrInvalidPlayerCount = errors.New("player count must be between 2 and 4")
	ErrInvalidSlot        = errors.New("commander slot must be main or partner")

	// Card errors
	ErrCardNotFound     = errors.New("card not found")
	ErrNotCommander     = errors.New("card cannot be a commander")
	ErrCommanderMissing = errors.New("commander not cached")
	ErrCommanderName    = errors.New("commander name is required")
	ErrCardLookup       = errors.New("card database unavailable")
)
