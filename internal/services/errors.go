package services

import "errors"

// Data service errors
var (
	// ErrNoSnapshot is returned by every read before the first successful load
	ErrNoSnapshot = errors.New("no injury data loaded")

	// ErrPlayerNotFound is returned when no row carries the requested player name
	ErrPlayerNotFound = errors.New("player not found")
)
