package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrInvalidID     = errors.New("invalid ID format")
	ErrGameNotFinal  = errors.New("game has no final score")
	ErrNoQuoteForSide = errors.New("odds quote has no entry for predicted side")
)

// MissingDataError marks a per-game data gap during simulation. It is
// non-fatal: the orchestrator logs it and skips the game.
type MissingDataError struct {
	GameID uuid.UUID
	Reason string
	Err    error
}

func (e *MissingDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("game %s: %s: %v", e.GameID, e.Reason, e.Err)
	}
	return fmt.Sprintf("game %s: %s", e.GameID, e.Reason)
}

func (e *MissingDataError) Unwrap() error {
	return e.Err
}

// NewMissingDataError creates a new missing data error for a game.
func NewMissingDataError(gameID uuid.UUID, reason string, err error) *MissingDataError {
	return &MissingDataError{GameID: gameID, Reason: reason, Err: err}
}

// IsMissingData reports whether err is a per-game data gap.
func IsMissingData(err error) bool {
	var target *MissingDataError
	return errors.As(err, &target)
}
