package core

import "errors"

var (
	// ErrInvalidDimensions is returned when a board cannot be built for the
	// requested size: non-positive or odd cell count, or an unusable kind pool.
	ErrInvalidDimensions = errors.New("linksame: invalid dimensions")

	// ErrInvalidSelection marks a tap or path query that names the same cell
	// twice, an empty cell, a cell off the board, or two different kinds.
	ErrInvalidSelection = errors.New("linksame: invalid selection")

	// ErrNoPathFound is the normal negative result of the path search.
	ErrNoPathFound = errors.New("linksame: no path found")

	// ErrNoHintAvailable means the board is stuck: tiles remain but no pair connects.
	ErrNoHintAvailable = errors.New("linksame: no hint available")

	// ErrCorruptState is returned when a persisted board cannot be restored.
	ErrCorruptState = errors.New("linksame: corrupt state")
)
